package redis

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

// newTestStore connects to WEBMARK_TEST_REDIS_ADDR and flushes the selected
// DB (WEBMARK_TEST_REDIS_DB, default 15) before and after the test.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("WEBMARK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WEBMARK_TEST_REDIS_ADDR not set, skipping redis store tests")
	}
	db := 15
	if v := os.Getenv("WEBMARK_TEST_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		require.NoError(t, err)
		db = n
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return NewStore(client)
}

func newCategory(userID, name string) *domain.Category {
	now := time.Now()
	return &domain.Category{ID: uuid.NewString(), UserID: userID, Name: name, CreatedAt: now, UpdatedAt: now}
}

func newBookmark(categoryID, name string) *domain.Bookmark {
	now := time.Now()
	return &domain.Bookmark{
		ID: uuid.NewString(), CategoryID: categoryID, Name: name,
		Link: "https://example.com/" + name, Logo: "logo.png",
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestStore_CategoryOrderAssignment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"Tools", "News", "Music"} {
		c := newCategory("alice", name)
		require.NoError(t, s.CreateCategory(ctx, c))
		assert.Equal(t, int64(i), c.Order)
	}

	list, err := s.ListCategories(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Tools", list[0].Name)
	assert.Equal(t, "Music", list[2].Name)

	other, err := s.ListCategories(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStore_GetCategoryIsOwnerScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := newCategory("alice", "Tools")
	require.NoError(t, s.CreateCategory(ctx, c))

	_, err := s.GetCategory(ctx, "bob", c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.UpdateCategory(ctx, "bob", c.ID, domain.CategoryPatch{}, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.DeleteCategory(ctx, "bob", c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := s.GetCategory(ctx, "alice", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tools", got.Name)
}

func TestStore_CascadeDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := newCategory("alice", "Tools")
	require.NoError(t, s.CreateCategory(ctx, c))
	for _, name := range []string{"a", "b"} {
		require.NoError(t, s.CreateBookmark(ctx, newBookmark(c.ID, name)))
	}

	removed, err := s.DeleteCategory(ctx, "alice", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err := s.ListBookmarks(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Bookmarks)
	assert.Equal(t, int64(0), snap.Categories)
}

func TestStore_CreateBookmarkInMissingCategory(t *testing.T) {
	s := newTestStore(t)
	err := s.CreateBookmark(context.Background(), newBookmark("missing", "a"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ReorderBookmarks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := newCategory("alice", "Tools")
	require.NoError(t, s.CreateCategory(ctx, c))
	first, second := newBookmark(c.ID, "first"), newBookmark(c.ID, "second")
	require.NoError(t, s.CreateBookmark(ctx, first))
	require.NoError(t, s.CreateBookmark(ctx, second))

	other := newCategory("alice", "Other")
	require.NoError(t, s.CreateCategory(ctx, other))
	foreign := newBookmark(other.ID, "foreign")
	require.NoError(t, s.CreateBookmark(ctx, foreign))

	err := s.ReorderBookmarks(ctx, c.ID, []domain.OrderUpdate{{ID: first.ID, Order: 5}, {ID: foreign.ID, Order: 0}})
	require.ErrorIs(t, err, domain.ErrValidation)

	// nothing written by the rejected batch
	got, err := s.GetBookmark(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Order)

	swap := []domain.OrderUpdate{{ID: first.ID, Order: 1}, {ID: second.ID, Order: 0}}
	require.NoError(t, s.ReorderBookmarks(ctx, c.ID, swap))
	require.NoError(t, s.ReorderBookmarks(ctx, c.ID, swap))

	list, err := s.ListBookmarks(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
	assert.Equal(t, "first", list[1].Name)
}

func TestStore_ClickLedger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := newCategory("alice", "Tools")
	require.NoError(t, s.CreateCategory(ctx, c))
	b := newBookmark(c.ID, "a")
	require.NoError(t, s.CreateBookmark(ctx, b))

	now := time.Now()
	for i := 0; i < domain.MaxClickHistory+3; i++ {
		_, err := s.RecordClick(ctx, b.ID, domain.ClickEntry{Timestamp: now, DeviceID: "d"})
		require.NoError(t, err)
		require.NoError(t, s.AddUsage(ctx, "alice", domain.LastClicked{BookmarkID: b.ID, Name: b.Name, Timestamp: now}, domain.SecondsSavedPerClick))
	}

	got, err := s.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.MaxClickHistory+3), got.ClickCount)
	assert.Len(t, got.ClickHistory, domain.MaxClickHistory)

	stats, err := s.UsageStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(domain.MaxClickHistory+3), stats.TotalClicks)
	assert.Equal(t, int64((domain.MaxClickHistory+3)*domain.SecondsSavedPerClick), stats.TimeSaved)
	require.NotNil(t, stats.LastClickedBookmark)
	assert.Equal(t, b.ID, stats.LastClickedBookmark.BookmarkID)

	empty, err := s.UsageStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, &domain.UsageStats{}, empty)
}

func TestStore_SweepOrphans(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := newCategory("alice", "Tools")
	require.NoError(t, s.CreateCategory(ctx, c))
	kept := newBookmark(c.ID, "kept")
	require.NoError(t, s.CreateBookmark(ctx, kept))

	// simulate a crash between the two steps of a non-transactional delete
	orphanCat := newCategory("alice", "Gone")
	require.NoError(t, s.CreateCategory(ctx, orphanCat))
	orphan := newBookmark(orphanCat.ID, "orphan")
	require.NoError(t, s.CreateBookmark(ctx, orphan))
	require.NoError(t, s.client.Del(ctx, CategoryKey(orphanCat.ID)).Err())

	removed, err := s.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.GetBookmark(ctx, orphan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetBookmark(ctx, kept.ID)
	assert.NoError(t, err)
}

func TestParseUsageStats(t *testing.T) {
	stats, err := parseUsageStats(map[string]string{
		statsFieldTotalClicks: "3",
		statsFieldTimeSaved:   "30",
		statsFieldLastID:      "b1",
		statsFieldLastName:    "GitHub",
		statsFieldLastAt:      "2026-01-02T03:04:05Z",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalClicks)
	assert.Equal(t, int64(30), stats.TimeSaved)
	require.NotNil(t, stats.LastClickedBookmark)
	assert.Equal(t, "GitHub", stats.LastClickedBookmark.Name)

	_, err = parseUsageStats(map[string]string{statsFieldTotalClicks: "x"})
	assert.Error(t, err)
}
