package hierarchy

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/logger"
)

// CategoryStore persists user-scoped categories.
type CategoryStore interface {
	ListCategories(ctx context.Context, userID string) ([]*domain.Category, error)
	GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, userID, categoryID string, patch domain.CategoryPatch, now time.Time) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) (int, error)
	ReorderCategories(ctx context.Context, userID string, updates []domain.OrderUpdate) error
}

// BookmarkStore persists category-scoped bookmarks.
type BookmarkStore interface {
	ListBookmarks(ctx context.Context, categoryID string) ([]*domain.Bookmark, error)
	ListBookmarksByCategories(ctx context.Context, categoryIDs []string) (map[string][]*domain.Bookmark, error)
	GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error)
	CreateBookmark(ctx context.Context, b *domain.Bookmark) error
	UpdateBookmark(ctx context.Context, id string, patch domain.BookmarkPatch, now time.Time) (*domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error
	ReorderBookmarks(ctx context.Context, categoryID string, updates []domain.OrderUpdate) error
}

// ClickLedger records clicks and the per-user aggregate.
type ClickLedger interface {
	RecordClick(ctx context.Context, bookmarkID string, click domain.ClickEntry) (*domain.Bookmark, error)
	AddUsage(ctx context.Context, userID string, last domain.LastClicked, secondsSaved int64) error
	UsageStats(ctx context.Context, userID string) (*domain.UsageStats, error)
}

// Store is everything the service needs from persistence.
type Store interface {
	CategoryStore
	BookmarkStore
	ClickLedger
}

// UnknownDevice is recorded when a click arrives without any device hint.
const UnknownDevice = "unknown"

// DefaultSearchLimit caps search results when the caller gives no limit.
const DefaultSearchLimit = 20

// Service enforces the ownership chain user → category → bookmark on
// every operation. All methods take the acting user explicitly.
type Service struct {
	store   Store
	log     logger.Logger
	maxName int
	now     func() time.Time
	newID   func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides uuid generation (tests).
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithMaxNameLength overrides domain.DefaultMaxNameLength.
func WithMaxNameLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxName = n
		}
	}
}

// NewService builds a Service on top of a store.
func NewService(store Store, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		log:     log,
		maxName: domain.DefaultMaxNameLength,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListCategories returns the user's categories, each with its bookmarks.
func (s *Service) ListCategories(ctx context.Context, userID string) (Result[[]*domain.Category], error) {
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return reject[[]*domain.Category](err, MsgNotAuthorized)
	}

	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	grouped, err := s.store.ListBookmarksByCategories(ctx, ids)
	if err != nil {
		return reject[[]*domain.Category](err, MsgNotAuthorized)
	}
	for _, c := range categories {
		c.Bookmarks = grouped[c.ID]
		if c.Bookmarks == nil {
			c.Bookmarks = []*domain.Bookmark{}
		}
	}
	return succeed("", categories), nil
}

// CreateCategory validates and stores a new category at the end of the list.
func (s *Service) CreateCategory(ctx context.Context, userID string, in domain.NewCategory) (Result[*domain.Category], error) {
	if err := domain.ValidateNewCategory(in, s.maxName); err != nil {
		return reject[*domain.Category](err, MsgNotAuthorized)
	}

	now := s.now()
	c := &domain.Category{
		ID:        s.newID(),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		BgColor:   in.BgColor,
		HColor:    in.HColor,
		Emoji:     in.Emoji,
		CreatedAt: now,
		UpdatedAt: now,
		Bookmarks: []*domain.Bookmark{},
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return reject[*domain.Category](err, MsgNotAuthorized)
	}

	s.log.Debug("category created", logger.String("user_id", userID), logger.String("category_id", c.ID))
	return succeed("Category created", c), nil
}

// UpdateCategory applies a partial update to one of the user's categories.
func (s *Service) UpdateCategory(ctx context.Context, userID, categoryID string, patch domain.CategoryPatch) (Result[*domain.Category], error) {
	if strings.TrimSpace(categoryID) == "" {
		return reject[*domain.Category](domain.Invalid("categoryId", "is required"), MsgNotAuthorized)
	}
	if err := domain.ValidateCategoryPatch(patch, s.maxName); err != nil {
		return reject[*domain.Category](err, MsgNotAuthorized)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}

	c, err := s.store.UpdateCategory(ctx, userID, categoryID, patch, s.now())
	if err != nil {
		return reject[*domain.Category](err, MsgNotAuthorized)
	}
	return succeed("Category updated", c), nil
}

// DeleteCategory removes a category together with all of its bookmarks.
// Data is the number of bookmarks removed.
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID string) (Result[int], error) {
	if strings.TrimSpace(categoryID) == "" {
		return reject[int](domain.Invalid("categoryId", "is required"), MsgNotAuthorized)
	}

	removed, err := s.store.DeleteCategory(ctx, userID, categoryID)
	if err != nil {
		return reject[int](err, MsgNotAuthorized)
	}

	s.log.Info("category deleted",
		logger.String("user_id", userID),
		logger.String("category_id", categoryID),
		logger.Int("bookmarks_removed", removed),
	)
	return succeed("Category and its bookmarks deleted", removed), nil
}

// ReorderCategories rewrites the order of several of the user's categories.
func (s *Service) ReorderCategories(ctx context.Context, userID string, updates []domain.OrderUpdate) (Result[struct{}], error) {
	if err := domain.ValidateOrderBatch("categories", updates); err != nil {
		return reject[struct{}](err, MsgNotAuthorized)
	}
	if err := s.store.ReorderCategories(ctx, userID, updates); err != nil {
		return reject[struct{}](err, MsgNotAuthorized)
	}
	return succeed("Categories reordered", struct{}{}), nil
}

// ListBookmarks returns the bookmarks of one of the user's categories.
func (s *Service) ListBookmarks(ctx context.Context, userID, categoryID string) (Result[[]*domain.Bookmark], error) {
	if _, err := s.store.GetCategory(ctx, userID, categoryID); err != nil {
		return reject[[]*domain.Bookmark](err, MsgNotAuthorized)
	}
	bookmarks, err := s.store.ListBookmarks(ctx, categoryID)
	if err != nil {
		return reject[[]*domain.Bookmark](err, MsgNotAuthorized)
	}
	return succeed("", bookmarks), nil
}

// CreateBookmark stores a bookmark at the end of one of the user's categories.
func (s *Service) CreateBookmark(ctx context.Context, userID string, in domain.NewBookmark) (Result[*domain.Bookmark], error) {
	if err := domain.ValidateNewBookmark(in, s.maxName); err != nil {
		return reject[*domain.Bookmark](err, MsgNotAuthorized)
	}
	if _, err := s.store.GetCategory(ctx, userID, in.CategoryID); err != nil {
		return reject[*domain.Bookmark](err, MsgNotAuthorized)
	}

	now := s.now()
	b := &domain.Bookmark{
		ID:           s.newID(),
		CategoryID:   in.CategoryID,
		Name:         strings.TrimSpace(in.Name),
		Link:         strings.TrimSpace(in.Link),
		Logo:         in.Logo,
		Notes:        in.Notes,
		ClickHistory: []domain.ClickEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateBookmark(ctx, b); err != nil {
		return reject[*domain.Bookmark](err, MsgNotAuthorized)
	}
	return succeed("Bookmark created", b), nil
}

// UpdateBookmark applies a partial update to a bookmark the user owns.
func (s *Service) UpdateBookmark(ctx context.Context, userID, bookmarkID string, patch domain.BookmarkPatch) (Result[*domain.Bookmark], error) {
	if strings.TrimSpace(bookmarkID) == "" {
		return reject[*domain.Bookmark](domain.Invalid("bookmarkId", "is required"), MsgBookmarkNotAuthorized)
	}
	if err := domain.ValidateBookmarkPatch(patch, s.maxName); err != nil {
		return reject[*domain.Bookmark](err, MsgBookmarkNotAuthorized)
	}
	if _, res, err := s.ownedBookmark(ctx, userID, bookmarkID); !res.Success {
		return Result[*domain.Bookmark]{Kind: res.Kind, Message: res.Message}, err
	}
	if patch.Link != nil {
		link := strings.TrimSpace(*patch.Link)
		patch.Link = &link
	}

	b, err := s.store.UpdateBookmark(ctx, bookmarkID, patch, s.now())
	if err != nil {
		return reject[*domain.Bookmark](err, MsgBookmarkNotAuthorized)
	}
	return succeed("Bookmark updated", b), nil
}

// DeleteBookmark removes a bookmark the user owns.
func (s *Service) DeleteBookmark(ctx context.Context, userID, bookmarkID string) (Result[struct{}], error) {
	if strings.TrimSpace(bookmarkID) == "" {
		return reject[struct{}](domain.Invalid("bookmarkId", "is required"), MsgBookmarkNotAuthorized)
	}
	if _, res, err := s.ownedBookmark(ctx, userID, bookmarkID); !res.Success {
		return Result[struct{}]{Kind: res.Kind, Message: res.Message}, err
	}
	if err := s.store.DeleteBookmark(ctx, bookmarkID); err != nil {
		return reject[struct{}](err, MsgBookmarkNotAuthorized)
	}
	return succeed("Bookmark deleted", struct{}{}), nil
}

// ReorderBookmarks rewrites the order of bookmarks inside one of the user's
// categories. A foreign bookmark id rejects the whole batch.
func (s *Service) ReorderBookmarks(ctx context.Context, userID, categoryID string, updates []domain.OrderUpdate) (Result[struct{}], error) {
	if strings.TrimSpace(categoryID) == "" {
		return reject[struct{}](domain.Invalid("categoryId", "is required"), MsgNotAuthorized)
	}
	if err := domain.ValidateOrderBatch("bookmarks", updates); err != nil {
		return reject[struct{}](err, MsgNotAuthorized)
	}
	if _, err := s.store.GetCategory(ctx, userID, categoryID); err != nil {
		return reject[struct{}](err, MsgNotAuthorized)
	}
	if err := s.store.ReorderBookmarks(ctx, categoryID, updates); err != nil {
		return reject[struct{}](err, MsgNotAuthorized)
	}
	return succeed("Bookmarks reordered", struct{}{}), nil
}

// ownedBookmark loads a bookmark and verifies its category belongs to userID.
// The returned Result is only meaningful when Success is false.
func (s *Service) ownedBookmark(ctx context.Context, userID, bookmarkID string) (*domain.Bookmark, Result[struct{}], error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID)
	if err != nil {
		res, err := reject[struct{}](err, MsgBookmarkNotAuthorized)
		return nil, res, err
	}
	if _, err := s.store.GetCategory(ctx, userID, b.CategoryID); err != nil {
		res, err := reject[struct{}](err, MsgNotAuthorized)
		return nil, res, err
	}
	return b, succeed("", struct{}{}), nil
}

// TrackClick counts a click on a bookmark the user owns and credits the
// user's usage aggregate.
//
// The two writes are independent. When the aggregate update fails after
// the bookmark was updated, the failure is logged and the click still
// counts as tracked.
func (s *Service) TrackClick(ctx context.Context, userID, bookmarkID, deviceID string) (Result[*domain.Bookmark], error) {
	if strings.TrimSpace(bookmarkID) == "" {
		return reject[*domain.Bookmark](domain.Invalid("bookmarkId", "is required"), MsgBookmarkNotAuthorized)
	}
	if _, res, err := s.ownedBookmark(ctx, userID, bookmarkID); !res.Success {
		return Result[*domain.Bookmark]{Kind: res.Kind, Message: res.Message}, err
	}
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		deviceID = UnknownDevice
	}
	if len(deviceID) > domain.MaxDeviceIDLength {
		deviceID = strings.ToValidUTF8(deviceID[:domain.MaxDeviceIDLength], "")
	}

	now := s.now()
	b, err := s.store.RecordClick(ctx, bookmarkID, domain.ClickEntry{Timestamp: now, DeviceID: deviceID})
	if err != nil {
		return reject[*domain.Bookmark](err, MsgBookmarkNotAuthorized)
	}

	last := domain.LastClicked{BookmarkID: b.ID, Name: b.Name, Timestamp: now}
	if err := s.store.AddUsage(ctx, userID, last, domain.SecondsSavedPerClick); err != nil {
		s.log.Error("failed to update usage stats",
			logger.String("user_id", userID),
			logger.String("bookmark_id", bookmarkID),
			logger.Error(err),
		)
	}
	return succeed("Click tracked", b), nil
}

// Stats returns the user's usage aggregate. A user who never clicked gets
// zeroes, not a failure.
func (s *Service) Stats(ctx context.Context, userID string) (Result[*domain.UsageStats], error) {
	stats, err := s.store.UsageStats(ctx, userID)
	if err != nil {
		return reject[*domain.UsageStats](err, MsgNotAuthorized)
	}
	return succeed("", stats), nil
}

// Search ranks the user's bookmarks against a free-text query.
func (s *Service) Search(ctx context.Context, userID, query string, limit int) (Result[[]*domain.BookmarkCandidate], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return reject[[]*domain.BookmarkCandidate](domain.Invalid("q", "is required"), MsgNotAuthorized)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return reject[[]*domain.BookmarkCandidate](err, MsgNotAuthorized)
	}
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	grouped, err := s.store.ListBookmarksByCategories(ctx, ids)
	if err != nil {
		return reject[[]*domain.BookmarkCandidate](err, MsgNotAuthorized)
	}

	var all []*domain.Bookmark
	for _, id := range ids {
		all = append(all, grouped[id]...)
	}

	candidates := domain.RankBookmarkCandidates(query, all)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return succeed("", candidates), nil
}
