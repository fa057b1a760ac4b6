package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/webmark/internal/auth"
	"github.com/MrSnakeDoc/webmark/internal/config"
	"github.com/MrSnakeDoc/webmark/internal/hierarchy"
	"github.com/MrSnakeDoc/webmark/internal/httpserver"
	"github.com/MrSnakeDoc/webmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/webmark/internal/logger"
	"github.com/MrSnakeDoc/webmark/internal/metrics"
	"github.com/MrSnakeDoc/webmark/internal/scheduler"
	"github.com/MrSnakeDoc/webmark/internal/utils"
	"github.com/MrSnakeDoc/webmark/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	closer   io.Closer
	sweeper  *scheduler.OrphanSweeper
	snapshot *scheduler.StatsAggregator
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	store, closer, err := OpenStore(context.Background(), cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open store: %v", err)
		os.Exit(1)
	}

	m := metrics.New()

	service := hierarchy.NewService(store, loggerClient,
		hierarchy.WithMaxNameLength(cfg.MaxNameLength))

	sweeper := scheduler.NewOrphanSweeper(store, m, loggerClient, cfg.SweepInterval)
	snapshot := scheduler.NewStatsAggregator(store, m, loggerClient, cfg.StatsInterval)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		Service:           service,
		Verifier:          auth.NewJWT(cfg.JWTSecret, cfg.JWTIssuer),
		Metrics:           m,
		Store:             store,
		StoreKind:         cfg.Store,
		Snapshots:         store,
		SearchLimit:       cfg.SearchLimit,
		ClickBurst:        cfg.ClickBurst,
		ClickRefillPerMin: cfg.ClickRefillPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   server,
		closer:   closer,
		sweeper:  sweeper,
		snapshot: snapshot,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Webmark v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Webmark %s, store=%s", version.String(), a.cfg.Store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start orphan sweeper (first sweep runs immediately)
	if err := a.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start orphan sweeper: %w", err)
	}
	a.logger.Info("orphan sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval))

	// Start statistics aggregator
	if err := a.snapshot.Start(ctx); err != nil {
		return fmt.Errorf("failed to start statistics aggregator: %w", err)
	}
	a.logger.Info("statistics aggregator started",
		logger.Duration("interval", a.cfg.StatsInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.sweeper.Stop()
	a.snapshot.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	utils.MustClose(a.closer, a.logger)

	a.logger.Info("✅ Webmark stopped cleanly")
	return nil
}
