package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecordedToggle is the outcome stored under an idempotency key so a retried
// request can be answered without flipping the relation again.
type RecordedToggle struct {
	Added bool `json:"added"`
	Count int  `json:"count"`
}

// IdempotencyStore records toggle outcomes under caller-supplied keys.
// Retention is TTL-bounded; this is a duplicate-submit guard, not a write-
// ahead log. With Redis unavailable every lookup misses and toggles behave
// as plain toggles.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewIdempotencyStore returns a store writing through the given client.
// A nil client is valid and disables the guard.
func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) key(userID uint, idempotencyKey string) string {
	return fmt.Sprintf("idem:%d:%s", userID, idempotencyKey)
}

// Lookup returns the recorded outcome for the key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, userID uint, idempotencyKey string) (RecordedToggle, bool, error) {
	var rec RecordedToggle
	if s == nil || s.rdb == nil || idempotencyKey == "" {
		return rec, false, nil
	}
	raw, err := s.rdb.Get(ctx, s.key(userID, idempotencyKey)).Result()
	if err == redis.Nil {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

// Record stores the outcome under the key. SetNX keeps the first completed
// toggle authoritative if two requests with the same key raced past Lookup.
func (s *IdempotencyStore) Record(ctx context.Context, userID uint, idempotencyKey string, rec RecordedToggle) error {
	if s == nil || s.rdb == nil || idempotencyKey == "" {
		return nil
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.SetNX(ctx, s.key(userID, idempotencyKey), b, s.ttl).Err()
}
