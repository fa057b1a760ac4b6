package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

// Fields of the per-user stats hash
const (
	statsFieldTotalClicks = "totalClicks"
	statsFieldTimeSaved   = "timeSaved"
	statsFieldLastID      = "lastBookmarkId"
	statsFieldLastName    = "lastBookmarkName"
	statsFieldLastAt      = "lastClickedAt"
)

// RecordClick increments the bookmark counter and appends to its bounded
// history. Concurrent clicks on the same bookmark are serialized by WATCH.
func (s *Store) RecordClick(ctx context.Context, bookmarkID string, click domain.ClickEntry) (*domain.Bookmark, error) {
	return s.mutateBookmark(ctx, bookmarkID, "record click", func(b *domain.Bookmark) {
		b.RecordClick(click)
	})
}

// AddUsage updates the user aggregate in one MULTI/EXEC.
func (s *Store) AddUsage(ctx context.Context, userID string, last domain.LastClicked, secondsSaved int64) error {
	key := UserStatsKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, statsFieldTotalClicks, 1)
		pipe.HIncrBy(ctx, key, statsFieldTimeSaved, secondsSaved)
		pipe.HSet(ctx, key,
			statsFieldLastID, last.BookmarkID,
			statsFieldLastName, last.Name,
			statsFieldLastAt, last.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		pipe.SAdd(ctx, KeyAllUsers, userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update usage stats: %w", err)
	}
	return nil
}

// UsageStats returns the user aggregate, zero-valued when the user never clicked.
func (s *Store) UsageStats(ctx context.Context, userID string) (*domain.UsageStats, error) {
	fields, err := s.client.HGetAll(ctx, UserStatsKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.UsageStats{}, nil
		}
		return nil, fmt.Errorf("failed to get usage stats: %w", err)
	}
	return parseUsageStats(fields)
}

func parseUsageStats(fields map[string]string) (*domain.UsageStats, error) {
	stats := &domain.UsageStats{}
	if len(fields) == 0 {
		return stats, nil
	}

	var err error
	if v := fields[statsFieldTotalClicks]; v != "" {
		if stats.TotalClicks, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", statsFieldTotalClicks, err)
		}
	}
	if v := fields[statsFieldTimeSaved]; v != "" {
		if stats.TimeSaved, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", statsFieldTimeSaved, err)
		}
	}
	if id := fields[statsFieldLastID]; id != "" {
		at, err := time.Parse(time.RFC3339Nano, fields[statsFieldLastAt])
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", statsFieldLastAt, err)
		}
		stats.LastClickedBookmark = &domain.LastClicked{
			BookmarkID: id,
			Name:       fields[statsFieldLastName],
			Timestamp:  at,
		}
	}
	return stats, nil
}
