package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

func category(id, userID, name string) *domain.Category {
	return &domain.Category{ID: id, UserID: userID, Name: name, CreatedAt: time.Now()}
}

func bookmark(id, categoryID, name string) *domain.Bookmark {
	return &domain.Bookmark{ID: id, CategoryID: categoryID, Name: name, Link: "https://example.com", Logo: "x", CreatedAt: time.Now()}
}

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	list, err := s.ListCategories(context.Background(), "anyone")
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("NewStore() should start empty, got %d categories", len(list))
	}
}

func TestCreateCategoryAssignsOrderPerUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i, id := range []string{"a1", "a2", "a3"} {
		c := category(id, "alice", id)
		if err := s.CreateCategory(ctx, c); err != nil {
			t.Fatalf("CreateCategory() error = %v", err)
		}
		if c.Order != int64(i) {
			t.Errorf("CreateCategory(%s) order = %d, want %d", id, c.Order, i)
		}
	}

	// another user starts at 0 again
	b := category("b1", "bob", "b1")
	if err := s.CreateCategory(ctx, b); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if b.Order != 0 {
		t.Errorf("first category of bob has order %d, want 0", b.Order)
	}
}

func TestCreateCategoryAfterReorderUsesMax(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.CreateCategory(ctx, category("a1", "alice", "a1"))
	_ = s.CreateCategory(ctx, category("a2", "alice", "a2"))
	if err := s.ReorderCategories(ctx, "alice", []domain.OrderUpdate{{ID: "a1", Order: 10}}); err != nil {
		t.Fatalf("ReorderCategories() error = %v", err)
	}

	c := category("a3", "alice", "a3")
	_ = s.CreateCategory(ctx, c)
	if c.Order != 11 {
		t.Errorf("order after reorder = %d, want 11", c.Order)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.CreateCategory(ctx, category("c1", "alice", "Tools"))
	got, _ := s.GetCategory(ctx, "alice", "c1")
	got.Name = "mutated"

	again, _ := s.GetCategory(ctx, "alice", "c1")
	if again.Name != "Tools" {
		t.Errorf("store was mutated through a returned pointer: %q", again.Name)
	}
}

func TestCreateBookmarkRequiresCategory(t *testing.T) {
	s := NewStore()
	err := s.CreateBookmark(context.Background(), bookmark("b1", "missing", "x"))
	if err == nil {
		t.Fatal("CreateBookmark() in a missing category should fail")
	}
	if domain.KindOf(err) != domain.KindAuthorization {
		t.Errorf("KindOf() = %v, want %v", domain.KindOf(err), domain.KindAuthorization)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.CreateCategory(ctx, category("c1", "alice", "Tools"))
	_ = s.CreateCategory(ctx, category("c2", "alice", "Other"))
	_ = s.CreateBookmark(ctx, bookmark("b1", "c1", "one"))
	_ = s.CreateBookmark(ctx, bookmark("b2", "c1", "two"))
	_ = s.CreateBookmark(ctx, bookmark("b3", "c2", "three"))

	removed, err := s.DeleteCategory(ctx, "alice", "c1")
	if err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("DeleteCategory() removed %d bookmarks, want 2", removed)
	}

	if list, _ := s.ListBookmarks(ctx, "c1"); len(list) != 0 {
		t.Errorf("bookmarks of deleted category still listed: %d", len(list))
	}
	if list, _ := s.ListBookmarks(ctx, "c2"); len(list) != 1 {
		t.Errorf("unrelated category lost bookmarks: %d", len(list))
	}
}

func TestReorderBookmarksRejectsForeignIDs(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.CreateCategory(ctx, category("c1", "alice", "Tools"))
	_ = s.CreateCategory(ctx, category("c2", "alice", "Other"))
	_ = s.CreateBookmark(ctx, bookmark("b1", "c1", "one"))
	_ = s.CreateBookmark(ctx, bookmark("b2", "c2", "two"))

	err := s.ReorderBookmarks(ctx, "c1", []domain.OrderUpdate{{ID: "b1", Order: 9}, {ID: "b2", Order: 9}})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("ReorderBookmarks() error kind = %v, want validation", domain.KindOf(err))
	}

	b1, _ := s.GetBookmark(ctx, "b1")
	b2, _ := s.GetBookmark(ctx, "b2")
	if b1.Order != 0 || b2.Order != 0 {
		t.Errorf("rejected batch was partially applied: b1=%d b2=%d", b1.Order, b2.Order)
	}
}

func TestSweepOrphans(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.CreateCategory(ctx, category("c1", "alice", "Tools"))
	_ = s.CreateBookmark(ctx, bookmark("b1", "c1", "one"))
	s.RemoveCategoryRecord("c1")

	removed, err := s.SweepOrphans(ctx)
	if err != nil {
		t.Fatalf("SweepOrphans() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("SweepOrphans() removed %d, want 1", removed)
	}
}

func TestSnapshotHistoryIsBounded(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 0; i < snapshotHistory+5; i++ {
		_ = s.SaveSnapshot(ctx, domain.GlobalSnapshot{Users: int64(i)})
	}
	if len(s.snapshots) != snapshotHistory {
		t.Errorf("kept %d snapshots, want %d", len(s.snapshots), snapshotHistory)
	}
	latest, _ := s.LatestSnapshot(ctx)
	if latest == nil || latest.Users != int64(snapshotHistory+4) {
		t.Errorf("LatestSnapshot() = %+v, want newest", latest)
	}
}

func TestConcurrentCreatesGetDistinctOrders(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.CreateCategory(ctx, category("c1", "alice", "Tools"))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.CreateBookmark(ctx, bookmark(fmt.Sprintf("b%d", i), "c1", "x"))
		}(i)
	}
	wg.Wait()

	list, _ := s.ListBookmarks(ctx, "c1")
	seen := make(map[int64]bool, n)
	for _, b := range list {
		if seen[b.Order] {
			t.Fatalf("duplicate order %d", b.Order)
		}
		seen[b.Order] = true
	}
	if len(list) != n {
		t.Errorf("got %d bookmarks, want %d", len(list), n)
	}
}
