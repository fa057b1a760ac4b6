package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

// ListBookmarks returns a category's bookmarks sorted by order.
func (s *Store) ListBookmarks(ctx context.Context, categoryID string) ([]*domain.Bookmark, error) {
	grouped, err := s.ListBookmarksByCategories(ctx, []string{categoryID})
	if err != nil {
		return nil, err
	}
	if list := grouped[categoryID]; list != nil {
		return list, nil
	}
	return []*domain.Bookmark{}, nil
}

// ListBookmarksByCategories loads the bookmarks of several categories with two
// round trips: one pipeline for the indexes, one MGET for the records.
func (s *Store) ListBookmarksByCategories(ctx context.Context, categoryIDs []string) (map[string][]*domain.Bookmark, error) {
	out := make(map[string][]*domain.Bookmark, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return out, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.ZSliceCmd, len(categoryIDs))
	for i, id := range categoryIDs {
		cmds[i] = pipe.ZRangeWithScores(ctx, CategoryBookmarksKey(id), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}

	type slot struct {
		categoryID string
		order      int64
	}
	var keys []string
	var slots []slot
	for i, cmd := range cmds {
		out[categoryIDs[i]] = []*domain.Bookmark{}
		for _, z := range cmd.Val() {
			keys = append(keys, BookmarkKey(memberString(z.Member)))
			slots = append(slots, slot{categoryID: categoryIDs[i], order: int64(z.Score)})
		}
	}
	if len(keys) == 0 {
		return out, nil
	}

	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}
	for i, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var b domain.Bookmark
		if err := json.Unmarshal([]byte(str), &b); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bookmark %s: %w", keys[i], err)
		}
		b.Order = slots[i].order
		out[slots[i].categoryID] = append(out[slots[i].categoryID], &b)
	}
	for _, list := range out {
		domain.SortBookmarks(list)
	}
	return out, nil
}

// GetBookmark retrieves a bookmark by ID
func (s *Store) GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error) {
	b, err := s.loadBookmark(ctx, s.client, id)
	if err != nil {
		return nil, err
	}
	s.fillOrder(ctx, b)
	return b, nil
}

// CreateBookmark stores a bookmark under its category with order = max+1.
// It fails with domain.ErrNotFound if the category disappeared meanwhile.
func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	res, err := insertOrderedScript.Run(ctx, s.client,
		[]string{CategoryBookmarksKey(b.CategoryID), BookmarkKey(b.ID), KeyAllBookmarks, CategoryKey(b.CategoryID)},
		b.ID, data,
	).Int64Slice()
	if err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	order, ok, err := parseInsertResult(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("category %s: %w", b.CategoryID, domain.ErrNotFound)
	}
	b.Order = order
	return nil
}

// UpdateBookmark applies a partial update of the user-editable fields.
func (s *Store) UpdateBookmark(ctx context.Context, id string, patch domain.BookmarkPatch, now time.Time) (*domain.Bookmark, error) {
	return s.mutateBookmark(ctx, id, "update bookmark", func(b *domain.Bookmark) {
		patch.Apply(b, now)
	})
}

// DeleteBookmark removes a bookmark from Redis
func (s *Store) DeleteBookmark(ctx context.Context, id string) error {
	b, err := s.loadBookmark(ctx, s.client, id)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, BookmarkKey(id))
		pipe.ZRem(ctx, CategoryBookmarksKey(b.CategoryID), id)
		pipe.SRem(ctx, KeyAllBookmarks, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

// ReorderBookmarks rewrites bookmark orders inside one category. IDs foreign
// to the category fail the whole batch before anything is written.
func (s *Store) ReorderBookmarks(ctx context.Context, categoryID string, updates []domain.OrderUpdate) error {
	return s.reorder(ctx, CategoryBookmarksKey(categoryID), "bookmarks", updates)
}

// mutateBookmark is a WATCH/GET/modify/SET XX cycle on one bookmark record.
func (s *Store) mutateBookmark(ctx context.Context, id, op string, fn func(b *domain.Bookmark)) (*domain.Bookmark, error) {
	var result *domain.Bookmark
	key := BookmarkKey(id)

	err := s.withRetry(ctx, func(tx *redis.Tx) error {
		b, err := s.loadBookmark(ctx, tx, id)
		if err != nil {
			return err
		}
		fn(b)

		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark: %w", err)
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetXX(ctx, key, data, redis.KeepTTL)
			return nil
		}); err != nil {
			return err
		}
		result = b
		return nil
	}, key)
	if err != nil {
		return nil, wrapTxErr(op, err)
	}

	s.fillOrder(ctx, result)
	return result, nil
}

func (s *Store) loadBookmark(ctx context.Context, c getter, id string) (*domain.Bookmark, error) {
	var b domain.Bookmark
	if err := getJSON(ctx, c, BookmarkKey(id), &b); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("bookmark %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return &b, nil
}

// fillOrder replaces the JSON order with the index score (best effort).
func (s *Store) fillOrder(ctx context.Context, b *domain.Bookmark) {
	if score, err := s.client.ZScore(ctx, CategoryBookmarksKey(b.CategoryID), b.ID).Result(); err == nil {
		b.Order = int64(score)
	}
}
