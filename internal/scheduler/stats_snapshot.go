package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/logger"
	"github.com/MrSnakeDoc/webmark/internal/metrics"
)

// DefaultStatsInterval is used when no interval is configured.
const DefaultStatsInterval = time.Hour

// SnapshotStore counts the whole dataset and keeps recent snapshots.
type SnapshotStore interface {
	Snapshot(ctx context.Context) (domain.GlobalSnapshot, error)
	SaveSnapshot(ctx context.Context, snap domain.GlobalSnapshot) error
}

// StatsAggregator periodically records a global snapshot and publishes it
// on the Prometheus gauges.
type StatsAggregator struct {
	store    SnapshotStore
	metrics  *metrics.Metrics // optional
	logger   logger.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewStatsAggregator creates a new aggregator. m may be nil.
func NewStatsAggregator(store SnapshotStore, m *metrics.Metrics, log logger.Logger, interval time.Duration) *StatsAggregator {
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	return &StatsAggregator{
		store:    store,
		metrics:  m,
		logger:   log,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start takes a snapshot immediately, then every interval.
func (a *StatsAggregator) Start(ctx context.Context) error {
	if _, err := a.Collect(ctx); err != nil {
		a.logger.Warn("initial stats snapshot failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(a.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := a.Collect(ctx); err != nil {
					a.logger.Error("stats snapshot failed",
						logger.Error(err))
				}
			case <-a.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the aggregator. It is safe to call more than once.
func (a *StatsAggregator) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
}

// Collect takes and stores one snapshot.
func (a *StatsAggregator) Collect(ctx context.Context) (domain.GlobalSnapshot, error) {
	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		a.countError()
		return domain.GlobalSnapshot{}, fmt.Errorf("failed to count dataset: %w", err)
	}
	snap.TakenAt = a.now().UTC()

	if err := a.store.SaveSnapshot(ctx, snap); err != nil {
		a.countError()
		return snap, fmt.Errorf("failed to save snapshot: %w", err)
	}
	if a.metrics != nil {
		a.metrics.SetSnapshot(snap)
	}

	a.logger.Info("stats snapshot recorded",
		logger.Int64("users", snap.Users),
		logger.Int64("categories", snap.Categories),
		logger.Int64("bookmarks", snap.Bookmarks),
		logger.Int64("clicks", snap.Clicks))
	return snap, nil
}

func (a *StatsAggregator) countError() {
	if a.metrics != nil {
		a.metrics.SnapshotErrors.Inc()
	}
}
