package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// maxTxRetries bounds optimistic (WATCH) transaction retries
	maxTxRetries = 10
	// snapshotHistory is the number of global snapshots kept
	snapshotHistory = 48
)

// Store handles Redis persistence for categories, bookmarks and the click ledger.
//
// Records are stored as JSON strings. Order is not trusted from the JSON:
// the sorted-set score of the parent index is the source of truth.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection (readiness probes)
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// withRetry runs an optimistic transaction, retrying when a watched key changed.
func (s *Store) withRetry(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("transaction aborted after %d retries: %w", maxTxRetries, redis.TxFailedErr)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// getJSON loads and decodes a record. Missing keys are reported as redis.Nil.
func getJSON(ctx context.Context, c getter, key string, v any) error {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}
