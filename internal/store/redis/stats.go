package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

// Snapshot counts users, categories, bookmarks and clicks.
func (s *Store) Snapshot(ctx context.Context) (domain.GlobalSnapshot, error) {
	var snap domain.GlobalSnapshot

	pipe := s.client.Pipeline()
	users := pipe.SCard(ctx, KeyAllUsers)
	categories := pipe.SCard(ctx, KeyAllCategories)
	bookmarks := pipe.SCard(ctx, KeyAllBookmarks)
	members := pipe.SMembers(ctx, KeyAllUsers)
	if _, err := pipe.Exec(ctx); err != nil {
		return snap, fmt.Errorf("failed to count records: %w", err)
	}
	snap.Users = users.Val()
	snap.Categories = categories.Val()
	snap.Bookmarks = bookmarks.Val()

	if ids := members.Val(); len(ids) > 0 {
		pipe := s.client.Pipeline()
		cmds := make([]*redis.StringCmd, len(ids))
		for i, id := range ids {
			cmds[i] = pipe.HGet(ctx, UserStatsKey(id), statsFieldTotalClicks)
		}
		if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
			return snap, fmt.Errorf("failed to sum clicks: %w", err)
		}
		for _, cmd := range cmds {
			if n, err := strconv.ParseInt(cmd.Val(), 10, 64); err == nil {
				snap.Clicks += n
			}
		}
	}
	return snap, nil
}

// SaveSnapshot pushes a snapshot and keeps only the most recent ones.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.GlobalSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, KeySnapshots, data)
		pipe.LTrim(ctx, KeySnapshots, 0, snapshotHistory-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the newest snapshot, or nil if none was taken yet.
func (s *Store) LatestSnapshot(ctx context.Context) (*domain.GlobalSnapshot, error) {
	data, err := s.client.LIndex(ctx, KeySnapshots, 0).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	var snap domain.GlobalSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
