package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

// Store is an in-process implementation of the category, bookmark and click
// stores. A single RWMutex makes every operation atomic, including cascade
// deletes and order assignment. Records are copied in and out so callers
// never share memory with the store.
type Store struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category   // ID -> Category
	bookmarks  map[string]*domain.Bookmark   // ID -> Bookmark
	usage      map[string]*domain.UsageStats // userID -> aggregate
	users      map[string]struct{}
	snapshots  []domain.GlobalSnapshot // newest first
}

const snapshotHistory = 48

// NewStore creates an empty memory store
func NewStore() *Store {
	return &Store{
		categories: make(map[string]*domain.Category),
		bookmarks:  make(map[string]*domain.Bookmark),
		usage:      make(map[string]*domain.UsageStats),
		users:      make(map[string]struct{}),
	}
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// ListCategories returns the user's categories sorted by order
func (s *Store) ListCategories(_ context.Context, userID string) ([]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Category, 0)
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, copyCategory(c))
		}
	}
	domain.SortCategories(out)
	return out, nil
}

// GetCategory retrieves a category scoped to its owner
func (s *Store) GetCategory(_ context.Context, userID, categoryID string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.ownedCategoryLocked(userID, categoryID)
	if err != nil {
		return nil, err
	}
	return copyCategory(c), nil
}

// CreateCategory adds a category with order = max+1 for its user
func (s *Store) CreateCategory(_ context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := int64(0)
	first := true
	for _, existing := range s.categories {
		if existing.UserID != c.UserID {
			continue
		}
		if first || existing.Order >= order {
			order = existing.Order + 1
			first = false
		}
	}
	c.Order = order

	s.categories[c.ID] = copyCategory(c)
	s.users[c.UserID] = struct{}{}
	return nil
}

// UpdateCategory applies a partial update if owned by userID
func (s *Store) UpdateCategory(_ context.Context, userID, categoryID string, patch domain.CategoryPatch, now time.Time) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.ownedCategoryLocked(userID, categoryID)
	if err != nil {
		return nil, err
	}
	patch.Apply(c, now)
	return copyCategory(c), nil
}

// DeleteCategory removes the category and all of its bookmarks
func (s *Store) DeleteCategory(_ context.Context, userID, categoryID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedCategoryLocked(userID, categoryID); err != nil {
		return 0, err
	}

	removed := 0
	for id, b := range s.bookmarks {
		if b.CategoryID == categoryID {
			delete(s.bookmarks, id)
			removed++
		}
	}
	delete(s.categories, categoryID)
	return removed, nil
}

// ReorderCategories rewrites orders after checking every ID belongs to userID
func (s *Store) ReorderCategories(_ context.Context, userID string, updates []domain.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		c, ok := s.categories[u.ID]
		if !ok || c.UserID != userID {
			return domain.Invalid("categories", "%s does not belong to this parent", u.ID)
		}
	}
	for _, u := range updates {
		s.categories[u.ID].Order = u.Order
	}
	return nil
}

func (s *Store) ownedCategoryLocked(userID, categoryID string) (*domain.Category, error) {
	c, ok := s.categories[categoryID]
	if !ok || c.UserID != userID {
		return nil, fmt.Errorf("category %s: %w", categoryID, domain.ErrNotFound)
	}
	return c, nil
}

// ListBookmarks returns a category's bookmarks sorted by order
func (s *Store) ListBookmarks(_ context.Context, categoryID string) ([]*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listBookmarksLocked(categoryID), nil
}

// ListBookmarksByCategories groups bookmarks for several categories
func (s *Store) ListBookmarksByCategories(_ context.Context, categoryIDs []string) (map[string][]*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]*domain.Bookmark, len(categoryIDs))
	for _, id := range categoryIDs {
		out[id] = s.listBookmarksLocked(id)
	}
	return out, nil
}

func (s *Store) listBookmarksLocked(categoryID string) []*domain.Bookmark {
	out := make([]*domain.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.CategoryID == categoryID {
			out = append(out, copyBookmark(b))
		}
	}
	domain.SortBookmarks(out)
	return out
}

// GetBookmark retrieves a bookmark by ID
func (s *Store) GetBookmark(_ context.Context, id string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}
	return copyBookmark(b), nil
}

// CreateBookmark adds a bookmark with order = max+1 inside its category
func (s *Store) CreateBookmark(_ context.Context, b *domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[b.CategoryID]; !ok {
		return fmt.Errorf("category %s: %w", b.CategoryID, domain.ErrNotFound)
	}

	order := int64(0)
	first := true
	for _, existing := range s.bookmarks {
		if existing.CategoryID != b.CategoryID {
			continue
		}
		if first || existing.Order >= order {
			order = existing.Order + 1
			first = false
		}
	}
	b.Order = order

	s.bookmarks[b.ID] = copyBookmark(b)
	return nil
}

// UpdateBookmark applies a partial update
func (s *Store) UpdateBookmark(_ context.Context, id string, patch domain.BookmarkPatch, now time.Time) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}
	patch.Apply(b, now)
	return copyBookmark(b), nil
}

// DeleteBookmark removes a bookmark
func (s *Store) DeleteBookmark(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookmarks[id]; !ok {
		return fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
	}
	delete(s.bookmarks, id)
	return nil
}

// ReorderBookmarks rewrites orders after checking every ID is in categoryID
func (s *Store) ReorderBookmarks(_ context.Context, categoryID string, updates []domain.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		b, ok := s.bookmarks[u.ID]
		if !ok || b.CategoryID != categoryID {
			return domain.Invalid("bookmarks", "%s does not belong to this parent", u.ID)
		}
	}
	for _, u := range updates {
		s.bookmarks[u.ID].Order = u.Order
	}
	return nil
}

// RecordClick increments the counter and appends to the bounded history
func (s *Store) RecordClick(_ context.Context, bookmarkID string, click domain.ClickEntry) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[bookmarkID]
	if !ok {
		return nil, fmt.Errorf("bookmark %s: %w", bookmarkID, domain.ErrNotFound)
	}
	b.RecordClick(click)
	return copyBookmark(b), nil
}

// AddUsage updates the user aggregate
func (s *Store) AddUsage(_ context.Context, userID string, last domain.LastClicked, secondsSaved int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.usage[userID]
	if !ok {
		u = &domain.UsageStats{}
		s.usage[userID] = u
	}
	u.TotalClicks++
	u.TimeSaved += secondsSaved
	l := last
	u.LastClickedBookmark = &l
	s.users[userID] = struct{}{}
	return nil
}

// UsageStats returns the user aggregate (zero value if never clicked)
func (s *Store) UsageStats(_ context.Context, userID string) (*domain.UsageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usage[userID]
	if !ok {
		return &domain.UsageStats{}, nil
	}
	out := *u
	if u.LastClickedBookmark != nil {
		l := *u.LastClickedBookmark
		out.LastClickedBookmark = &l
	}
	return &out, nil
}

// SweepOrphans deletes bookmarks whose category is gone
func (s *Store) SweepOrphans(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, b := range s.bookmarks {
		if _, ok := s.categories[b.CategoryID]; !ok {
			delete(s.bookmarks, id)
			removed++
		}
	}
	return removed, nil
}

// Snapshot counts everything in the store
func (s *Store) Snapshot(context.Context) (domain.GlobalSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.GlobalSnapshot{
		Users:      int64(len(s.users)),
		Categories: int64(len(s.categories)),
		Bookmarks:  int64(len(s.bookmarks)),
	}
	for _, u := range s.usage {
		snap.Clicks += u.TotalClicks
	}
	return snap, nil
}

// SaveSnapshot keeps the most recent snapshots
func (s *Store) SaveSnapshot(_ context.Context, snap domain.GlobalSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append([]domain.GlobalSnapshot{snap}, s.snapshots...)
	if len(s.snapshots) > snapshotHistory {
		s.snapshots = s.snapshots[:snapshotHistory]
	}
	return nil
}

// LatestSnapshot returns the newest snapshot, or nil
func (s *Store) LatestSnapshot(context.Context) (*domain.GlobalSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return nil, nil
	}
	snap := s.snapshots[0]
	return &snap, nil
}

// RemoveCategoryRecord drops only the category record, leaving its bookmarks
// behind. It reproduces a crash between the two steps of a non-transactional
// cascade delete and exists for sweeper tests.
func (s *Store) RemoveCategoryRecord(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.categories, categoryID)
}

func copyCategory(c *domain.Category) *domain.Category {
	out := *c
	out.Bookmarks = nil
	return &out
}

func copyBookmark(b *domain.Bookmark) *domain.Bookmark {
	out := *b
	if b.LastClicked != nil {
		t := *b.LastClicked
		out.LastClicked = &t
	}
	if b.ClickHistory != nil {
		out.ClickHistory = append([]domain.ClickEntry(nil), b.ClickHistory...)
	}
	return &out
}
