package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemNS = "flytau:v1:idem"

	idemLockValue    = "LOCK"
	idemResultPrefix = "RES:"
)

func KeyIdemCheckout(flightNumber, idemKey string) string {
	return fmt.Sprintf("%s:checkout:%s:%s", idemNS, flightNumber, idemKey)
}

// IdempotencyStore dedupes checkout retries. While the first attempt is in
// flight the key holds a lock marker; once it finishes the key holds the
// result, so a retried request returns the original booking instead of
// charging twice.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// AcquireLock claims the key for the caller. False means another attempt
// holds it, either still running or already finished.
func (s *IdempotencyStore) AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, idemLockValue, lockTTL).Result()
}

// SaveResult replaces the lock with the final payload under the store TTL.
func (s *IdempotencyStore) SaveResult(ctx context.Context, key, payload string) error {
	return s.rdb.Set(ctx, key, idemResultPrefix+payload, s.ttl).Err()
}

// GetResult returns the saved payload. False when the key is absent or
// still locked.
func (s *IdempotencyStore) GetResult(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if payload, ok := strings.CutPrefix(v, idemResultPrefix); ok {
		return payload, true, nil
	}

	return "", false, nil
}

func (s *IdempotencyStore) IsLocked(ctx context.Context, key string) (bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return v == idemLockValue, nil
}

// Release drops the key so a failed attempt can be retried immediately.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
