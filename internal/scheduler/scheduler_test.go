package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/logger"
	"github.com/MrSnakeDoc/webmark/internal/metrics"
	"github.com/MrSnakeDoc/webmark/internal/store/memory"
)

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	for _, c := range []*domain.Category{
		{ID: "c1", UserID: "alice", Name: "Tools", CreatedAt: now},
		{ID: "c2", UserID: "bob", Name: "News", CreatedAt: now},
	} {
		if err := s.CreateCategory(ctx, c); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
	}
	for _, b := range []*domain.Bookmark{
		{ID: "b1", CategoryID: "c1", Name: "one", Link: "https://one.io", Logo: "x", CreatedAt: now},
		{ID: "b2", CategoryID: "c1", Name: "two", Link: "https://two.io", Logo: "x", CreatedAt: now},
		{ID: "b3", CategoryID: "c2", Name: "three", Link: "https://three.io", Logo: "x", CreatedAt: now},
	} {
		if err := s.CreateBookmark(ctx, b); err != nil {
			t.Fatalf("CreateBookmark failed: %v", err)
		}
	}
}

func TestOrphanSweeper_Sweep(t *testing.T) {
	log := logger.New("error", false)
	store := memory.NewStore()
	seed(t, store)

	// Simulate a cascade interrupted after the category record went away
	store.RemoveCategoryRecord("c1")

	sweeper := NewOrphanSweeper(store, metrics.New(), log, time.Hour)
	removed, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 orphans removed, got %d", removed)
	}

	// Second pass has nothing left to do
	removed, err = sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Expected idempotent sweep, got %d removed", removed)
	}

	if _, err := store.GetBookmark(context.Background(), "b3"); err != nil {
		t.Errorf("Bookmark of a live category was removed: %v", err)
	}
}

func TestOrphanSweeper_StartStop(t *testing.T) {
	log := logger.New("error", false)
	store := memory.NewStore()
	seed(t, store)
	store.RemoveCategoryRecord("c2")

	sweeper := NewOrphanSweeper(store, nil, log, time.Hour)
	if err := sweeper.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	sweeper.Stop()
	sweeper.Stop()

	// Start sweeps synchronously once
	if _, err := store.GetBookmark(context.Background(), "b3"); err == nil {
		t.Error("Expected the initial sweep to remove b3")
	}
}

func TestStatsAggregator_Collect(t *testing.T) {
	log := logger.New("error", false)
	store := memory.NewStore()
	seed(t, store)

	if err := store.AddUsage(context.Background(), "alice", domain.LastClicked{BookmarkID: "b1"}, 10); err != nil {
		t.Fatalf("AddUsage failed: %v", err)
	}

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	agg := NewStatsAggregator(store, metrics.New(), log, time.Hour)
	agg.now = func() time.Time { return fixed }

	snap, err := agg.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	want := domain.GlobalSnapshot{Users: 2, Categories: 2, Bookmarks: 3, Clicks: 1, TakenAt: fixed}
	if snap != want {
		t.Errorf("Collect() = %+v, want %+v", snap, want)
	}

	latest, err := store.LatestSnapshot(context.Background())
	if err != nil || latest == nil {
		t.Fatalf("LatestSnapshot() = %v, %v", latest, err)
	}
	if *latest != want {
		t.Errorf("stored snapshot = %+v, want %+v", *latest, want)
	}
}

type failingSnapshots struct{}

func (failingSnapshots) Snapshot(context.Context) (domain.GlobalSnapshot, error) {
	return domain.GlobalSnapshot{}, errors.New("redis down")
}

func (failingSnapshots) SaveSnapshot(context.Context, domain.GlobalSnapshot) error { return nil }

func TestStatsAggregator_CollectError(t *testing.T) {
	agg := NewStatsAggregator(failingSnapshots{}, metrics.New(), logger.New("error", false), 0)
	if agg.interval != DefaultStatsInterval {
		t.Errorf("interval = %v, want default %v", agg.interval, DefaultStatsInterval)
	}
	if _, err := agg.Collect(context.Background()); err == nil {
		t.Error("Expected an error from a failing store")
	}
}
