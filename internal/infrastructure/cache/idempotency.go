package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/clock"
)

// IdempotencyStatus represents the state of an idempotent operation.
type IdempotencyStatus string

const (
	IdempotencyStatusPending IdempotencyStatus = "pending"
	IdempotencyStatusSuccess IdempotencyStatus = "success"
	IdempotencyStatusFailed  IdempotencyStatus = "failed"
)

const (
	idempotencyKeyPrefix = "invoicegen:idempotency:"

	// pendingStaleAfter is how long a pending key blocks retries before it
	// is treated as abandoned by a crashed request.
	pendingStaleAfter = time.Minute
)

// IdempotencyRecord is the JSON value stored under one key.
type IdempotencyRecord struct {
	Status      IdempotencyStatus `json:"status"`
	Operation   string            `json:"operation"`
	RequestHash string            `json:"requestHash"`
	StatusCode  int               `json:"statusCode,omitempty"`
	ContentType string            `json:"contentType,omitempty"`
	Body        []byte            `json:"body,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// IdempotencyReplay is the cached HTTP response for replay.
type IdempotencyReplay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// redisClient is the subset of redis.Cmdable the store uses.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisIdempotencyStore manages idempotency keys in Redis.
type RedisIdempotencyStore struct {
	client redisClient
	ttl    time.Duration
	clock  clock.Clock
}

// NewRedisIdempotencyStore creates a new idempotency store.
func NewRedisIdempotencyStore(client redis.Cmdable, ttl time.Duration, clk clock.Clock) *RedisIdempotencyStore {
	if clk == nil {
		clk = clock.Real{}
	}
	return &RedisIdempotencyStore{client: client, ttl: ttl, clock: clk}
}

func redisKey(key string) string {
	return idempotencyKeyPrefix + key
}

// AcquireKey attempts to acquire an idempotency key.
// Returns:
//   - (nil, nil) if key acquired successfully
//   - (replay, nil) if operation already completed (success or failed)
//   - (nil, error) if key is locked by another request or reused for a different one
func (s *RedisIdempotencyStore) AcquireKey(ctx context.Context, key, operation, requestHash string) (*IdempotencyReplay, error) {
	pending, err := s.encode(IdempotencyRecord{
		Status:      IdempotencyStatusPending,
		Operation:   operation,
		RequestHash: requestHash,
		UpdatedAt:   s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	acquired, err := s.client.SetNX(ctx, redisKey(key), pending, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}
	if acquired {
		return nil, nil
	}

	raw, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		if err := s.client.Set(ctx, redisKey(key), pending, s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("acquire idempotency key: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load idempotency key: %w", err)
	}

	var record IdempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}

	// Key exists: protect against reuse for a different request.
	if record.Operation != operation || record.RequestHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("stored_operation", record.Operation).
			WithDetail("request_operation", operation)
	}

	switch record.Status {
	case IdempotencyStatusSuccess, IdempotencyStatusFailed:
		return &IdempotencyReplay{
			StatusCode:  normalizeReplayStatus(record.StatusCode),
			ContentType: normalizeReplayContentType(record.ContentType),
			Body:        record.Body,
		}, nil

	case IdempotencyStatusPending:
		if s.clock.Now().Sub(record.UpdatedAt) > pendingStaleAfter {
			// Reclaim stale key
			if err := s.client.Set(ctx, redisKey(key), pending, s.ttl).Err(); err != nil {
				return nil, fmt.Errorf("reclaim stale key: %w", err)
			}
			return nil, nil
		}
		return nil, apperror.NewIdempotencyConflict(key)
	}

	return nil, nil
}

// CompleteKey stores the final response for key. Responses with a status
// below 400 are stored as success, others as failed.
func (s *RedisIdempotencyStore) CompleteKey(ctx context.Context, key, operation, requestHash string, statusCode int, contentType string, body []byte) error {
	status := IdempotencyStatusSuccess
	if statusCode >= http.StatusBadRequest {
		status = IdempotencyStatusFailed
	}

	value, err := s.encode(IdempotencyRecord{
		Status:      status,
		Operation:   operation,
		RequestHash: requestHash,
		StatusCode:  statusCode,
		ContentType: contentType,
		Body:        body,
		UpdatedAt:   s.clock.Now(),
	})
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, redisKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// ReleaseKey forgets key so that the request can be retried.
func (s *RedisIdempotencyStore) ReleaseKey(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (s *RedisIdempotencyStore) encode(record IdempotencyRecord) ([]byte, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode idempotency record: %w", err)
	}
	return b, nil
}

func normalizeReplayStatus(code int) int {
	if code < 100 || code > 599 {
		return http.StatusOK
	}
	return code
}

func normalizeReplayContentType(ct string) string {
	if ct == "" {
		return "application/json; charset=utf-8"
	}
	return ct
}
