package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline (default: 5s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store string // "redis" | "memory"

	// Identity
	JWTSecret string // HS256 shared secret with the identity provider
	JWTIssuer string // optional, checked when set

	// Domain limits
	MaxNameLength int // max runes for category and bookmark names (default: 64)
	SearchLimit   int // max search results (default: 20)

	// Click rate limiting (per user, client IP as fallback)
	ClickBurst        int // tokens in the bucket (default: 30)
	ClickRefillPerMin int // refill per minute (default: 120)

	// Background jobs
	SweepInterval time.Duration // orphan bookmark sweep (default: 24h)
	StatsInterval time.Duration // global statistics snapshot (default: 1h)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict /readyz, /infra and /metrics to specific IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("WEBMARK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("WEBMARK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("WEBMARK_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("WEBMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("WEBMARK_PRETTY_LOG", false),

		Store: strings.ToLower(getenv("WEBMARK_STORE", StoreRedis)),

		// Identity
		JWTSecret: requireEnv("WEBMARK_JWT_SECRET"),
		JWTIssuer: getenv("WEBMARK_JWT_ISSUER", ""),

		// Domain limits
		MaxNameLength: getenvInt("WEBMARK_MAX_NAME_LENGTH", 64),
		SearchLimit:   getenvInt("WEBMARK_SEARCH_LIMIT", 20),

		ClickBurst:        getenvInt("WEBMARK_CLICK_BURST", 30),
		ClickRefillPerMin: getenvInt("WEBMARK_CLICK_REFILL_PER_MIN", 120),

		SweepInterval: mustDuration("WEBMARK_SWEEP_INTERVAL", 24*time.Hour),
		StatsInterval: mustDuration("WEBMARK_STATS_INTERVAL", time.Hour),

		// Redis settings
		RedisAddr:             getenv("WEBMARK_REDIS_ADDR", ""),
		RedisUser:             getenv("WEBMARK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("WEBMARK_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("WEBMARK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("WEBMARK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("WEBMARK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("WEBMARK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("WEBMARK_TRUST_PROXY", false),
	}

	switch cfg.Store {
	case StoreRedis:
		if cfg.RedisAddr == "" {
			panic("❌ FATAL: Required environment variable WEBMARK_REDIS_ADDR is not set (WEBMARK_STORE=redis)")
		}
		// Validate Redis password configuration
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: WEBMARK_REDIS_PASSWORD is required when WEBMARK_REDIS_PASSWORD_REQUIRED=true")
		}
	case StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid WEBMARK_STORE %q (want redis or memory)", cfg.Store))
	}

	if cfg.MaxNameLength < 1 {
		panic(fmt.Sprintf("❌ FATAL: WEBMARK_MAX_NAME_LENGTH must be positive, got %d", cfg.MaxNameLength))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.JWTSecret = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func requireEnvSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return splitAndTrim(v)
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
