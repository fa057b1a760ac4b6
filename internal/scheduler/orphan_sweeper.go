package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/webmark/internal/logger"
	"github.com/MrSnakeDoc/webmark/internal/metrics"
)

// DefaultSweepInterval is used when no interval is configured.
const DefaultSweepInterval = 24 * time.Hour

// OrphanStore removes bookmarks whose category record is gone.
type OrphanStore interface {
	SweepOrphans(ctx context.Context) (int, error)
}

// OrphanSweeper periodically removes bookmarks left behind by a category
// that no longer exists.
type OrphanSweeper struct {
	store    OrphanStore
	metrics  *metrics.Metrics // optional
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewOrphanSweeper creates a new sweeper. m may be nil.
func NewOrphanSweeper(store OrphanStore, m *metrics.Metrics, log logger.Logger, interval time.Duration) *OrphanSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &OrphanSweeper{
		store:    store,
		metrics:  m,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start sweeps once, then every interval until Stop or ctx is done.
func (s *OrphanSweeper) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Warn("initial orphan sweep failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.Sweep(ctx); err != nil {
					s.logger.Error("orphan sweep failed",
						logger.Error(err))
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper. It is safe to call more than once.
func (s *OrphanSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Sweep runs one pass and returns the number of bookmarks removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	removed, err := s.store.SweepOrphans(ctx)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.SweepDuration.Observe(elapsed.Seconds())
		s.metrics.OrphansSwept.Add(float64(removed))
	}
	if err != nil {
		return removed, err
	}

	if removed > 0 {
		s.logger.Info("orphan sweep completed",
			logger.Int("bookmarks_deleted", removed),
			logger.Duration("duration", elapsed))
	} else {
		s.logger.Debug("no orphan bookmarks to sweep")
	}
	return removed, nil
}
