package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/webmark/internal/auth"
	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/hierarchy"
	"github.com/MrSnakeDoc/webmark/internal/logger"
	"github.com/MrSnakeDoc/webmark/internal/metrics"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SnapshotReader returns the latest global statistics snapshot (nil if none yet).
type SnapshotReader interface {
	LatestSnapshot(ctx context.Context) (*domain.GlobalSnapshot, error)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed to access the API
	AllowedCIDRS []string // IPs allowed to access readyz/infra/metrics endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Service   *hierarchy.Service // ownership-checked category/bookmark/click operations
	Verifier  auth.Verifier      // turns the token header into a user id
	Metrics   *metrics.Metrics   // Prometheus collectors (nil disables /metrics)
	Store     Pinger             // readiness probe target
	StoreKind string             // "redis" | "memory"
	Snapshots SnapshotReader     // global statistics

	SearchLimit       int // max search results
	ClickBurst        int // click rate limit bucket size per user
	ClickRefillPerMin int // click rate limit refill per minute
}

// Now returns TimeNow() or time.Now() when unset.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
