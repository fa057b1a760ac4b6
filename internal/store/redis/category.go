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

// ListCategories returns the user's categories sorted by order (bookmarks not joined).
func (s *Store) ListCategories(ctx context.Context, userID string) ([]*domain.Category, error) {
	entries, err := s.client.ZRangeWithScores(ctx, UserCategoriesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get category IDs: %w", err)
	}
	if len(entries) == 0 {
		return []*domain.Category{}, nil
	}

	keys := make([]string, len(entries))
	for i, z := range entries {
		keys[i] = CategoryKey(memberString(z.Member))
	}

	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	categories := make([]*domain.Category, 0, len(entries))
	for i, v := range raw {
		str, ok := v.(string)
		if !ok {
			// Index entry without a record; the sweeper owns this case
			continue
		}
		var c domain.Category
		if err := json.Unmarshal([]byte(str), &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal category %s: %w", keys[i], err)
		}
		if c.UserID != userID {
			continue
		}
		c.Order = int64(entries[i].Score)
		c.Bookmarks = nil
		categories = append(categories, &c)
	}

	domain.SortCategories(categories)
	return categories, nil
}

// GetCategory loads a category scoped to its owner.
// A foreign or missing category yields domain.ErrNotFound.
func (s *Store) GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	c, err := s.loadOwnedCategory(ctx, s.client, userID, categoryID)
	if err != nil {
		return nil, err
	}
	score, err := s.client.ZScore(ctx, UserCategoriesKey(userID), categoryID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get category order: %w", err)
	}
	c.Order = int64(score)
	return c, nil
}

// CreateCategory stores a new category and assigns its order atomically.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	stored := *c
	stored.Bookmarks = nil
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal category: %w", err)
	}

	res, err := insertOrderedScript.Run(ctx, s.client,
		[]string{UserCategoriesKey(c.UserID), CategoryKey(c.ID), KeyAllCategories, ""},
		c.ID, data,
	).Int64Slice()
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	order, _, err := parseInsertResult(res)
	if err != nil {
		return err
	}
	c.Order = order

	if err := s.client.SAdd(ctx, KeyAllUsers, c.UserID).Err(); err != nil {
		return fmt.Errorf("failed to add user to set: %w", err)
	}
	return nil
}

// UpdateCategory applies a partial update if the category belongs to userID.
func (s *Store) UpdateCategory(ctx context.Context, userID, categoryID string, patch domain.CategoryPatch, now time.Time) (*domain.Category, error) {
	var updated *domain.Category

	err := s.withRetry(ctx, func(tx *redis.Tx) error {
		c, err := s.loadOwnedCategory(ctx, tx, userID, categoryID)
		if err != nil {
			return err
		}
		patch.Apply(c, now)

		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal category: %w", err)
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetXX(ctx, CategoryKey(categoryID), data, redis.KeepTTL)
			return nil
		}); err != nil {
			return err
		}
		updated = c
		return nil
	}, CategoryKey(categoryID))
	if err != nil {
		return nil, wrapTxErr("update category", err)
	}

	score, err := s.client.ZScore(ctx, UserCategoriesKey(userID), categoryID).Result()
	if err == nil {
		updated.Order = int64(score)
	}
	return updated, nil
}

// DeleteCategory removes the category and every bookmark it owns in a single
// MULTI/EXEC. A bookmark created concurrently aborts the transaction, which
// is then retried with the fresh member list.
func (s *Store) DeleteCategory(ctx context.Context, userID, categoryID string) (int, error) {
	removed := 0
	indexKey := CategoryBookmarksKey(categoryID)

	err := s.withRetry(ctx, func(tx *redis.Tx) error {
		if _, err := s.loadOwnedCategory(ctx, tx, userID, categoryID); err != nil {
			return err
		}
		ids, err := tx.ZRange(ctx, indexKey, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to get bookmark IDs: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range ids {
				pipe.Del(ctx, BookmarkKey(id))
			}
			if len(ids) > 0 {
				pipe.SRem(ctx, KeyAllBookmarks, toAny(ids)...)
			}
			pipe.Del(ctx, indexKey, CategoryKey(categoryID))
			pipe.ZRem(ctx, UserCategoriesKey(userID), categoryID)
			pipe.SRem(ctx, KeyAllCategories, categoryID)
			return nil
		})
		if err != nil {
			return err
		}
		removed = len(ids)
		return nil
	}, CategoryKey(categoryID), indexKey)
	if err != nil {
		return 0, wrapTxErr("delete category", err)
	}
	return removed, nil
}

// ReorderCategories rewrites category orders for one user. Every ID must be
// one of the user's categories; nothing is written otherwise.
func (s *Store) ReorderCategories(ctx context.Context, userID string, updates []domain.OrderUpdate) error {
	return s.reorder(ctx, UserCategoriesKey(userID), "categories", updates)
}

// reorder is shared by category and bookmark reordering.
func (s *Store) reorder(ctx context.Context, indexKey, field string, updates []domain.OrderUpdate) error {
	err := s.withRetry(ctx, func(tx *redis.Tx) error {
		for _, u := range updates {
			if err := tx.ZScore(ctx, indexKey, u.ID).Err(); err != nil {
				if errors.Is(err, redis.Nil) {
					return domain.Invalid(field, "%s does not belong to this parent", u.ID)
				}
				return fmt.Errorf("failed to check membership: %w", err)
			}
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, u := range updates {
				pipe.ZAddXX(ctx, indexKey, redis.Z{Score: float64(u.Order), Member: u.ID})
			}
			return nil
		})
		return err
	}, indexKey)
	if err != nil {
		return wrapTxErr("reorder "+field, err)
	}
	return nil
}

func (s *Store) loadOwnedCategory(ctx context.Context, c getter, userID, categoryID string) (*domain.Category, error) {
	var cat domain.Category
	if err := getJSON(ctx, c, CategoryKey(categoryID), &cat); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("category %s: %w", categoryID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if cat.UserID != userID {
		return nil, fmt.Errorf("category %s: %w", categoryID, domain.ErrNotFound)
	}
	cat.Bookmarks = nil
	return &cat, nil
}

// wrapTxErr keeps business errors intact and annotates the rest.
func wrapTxErr(op string, err error) error {
	if domain.KindOf(err) != domain.KindInfrastructure {
		return err
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func memberString(m any) string {
	if s, ok := m.(string); ok {
		return s
	}
	return fmt.Sprint(m)
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
