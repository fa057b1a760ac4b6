package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

const sweepBatch = 200

// SweepOrphans deletes bookmarks whose category record no longer exists,
// along with dangling IDs in the global bookmark set. Returns the number
// of bookmarks removed.
func (s *Store) SweepOrphans(ctx context.Context) (int, error) {
	removed := 0
	batch := make([]string, 0, sweepBatch)

	iter := s.client.SScan(ctx, KeyAllBookmarks, 0, "", sweepBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == sweepBatch {
			n, err := s.sweepBatch(ctx, batch)
			if err != nil {
				return removed, err
			}
			removed += n
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan bookmarks: %w", err)
	}
	if len(batch) > 0 {
		n, err := s.sweepBatch(ctx, batch)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

func (s *Store) sweepBatch(ctx context.Context, ids []string) (int, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = BookmarkKey(id)
	}
	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	type candidate struct {
		id         string
		categoryID string
	}
	var dangling []string
	var candidates []candidate
	for i, v := range raw {
		str, ok := v.(string)
		if !ok {
			dangling = append(dangling, ids[i])
			continue
		}
		var b domain.Bookmark
		if err := json.Unmarshal([]byte(str), &b); err != nil {
			continue
		}
		candidates = append(candidates, candidate{id: b.ID, categoryID: b.CategoryID})
	}

	pipe := s.client.Pipeline()
	exists := make([]*redis.IntCmd, len(candidates))
	for i, c := range candidates {
		exists[i] = pipe.Exists(ctx, CategoryKey(c.categoryID))
	}
	if len(candidates) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, fmt.Errorf("failed to check categories: %w", err)
		}
	}

	var orphans []candidate
	for i, c := range candidates {
		if exists[i].Val() == 0 {
			orphans = append(orphans, c)
		}
	}
	if len(orphans) == 0 && len(dangling) == 0 {
		return 0, nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, o := range orphans {
			pipe.Del(ctx, BookmarkKey(o.id), CategoryBookmarksKey(o.categoryID))
			pipe.SRem(ctx, KeyAllBookmarks, o.id)
		}
		if len(dangling) > 0 {
			pipe.SRem(ctx, KeyAllBookmarks, toAny(dangling)...)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphans: %w", err)
	}
	return len(orphans), nil
}
