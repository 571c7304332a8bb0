package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
)

const attemptKeyPrefix = "registration:attempt:"

// RedisAttemptStore Redis-backed AttemptStore. GETDEL gives Take its
// atomicity; expiry rides on the key TTL.
type RedisAttemptStore struct {
	client *redis.Client
}

// NewRedisAttemptStore creates the store
func NewRedisAttemptStore(client *redis.Client) *RedisAttemptStore {
	return &RedisAttemptStore{client: client}
}

// Put stores or restores an attempt under its correlation id
func (s *RedisAttemptStore) Put(ctx context.Context, attempt *model.RegistrationAttempt, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("attempt %s already expired", attempt.CorrelationID)
	}
	payload, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt: %w", err)
	}
	return s.client.Set(ctx, attemptKeyPrefix+attempt.CorrelationID, payload, ttl).Err()
}

// Take removes and returns the attempt, or nil when absent
func (s *RedisAttemptStore) Take(ctx context.Context, correlationID string) (*model.RegistrationAttempt, error) {
	payload, err := s.client.GetDel(ctx, attemptKeyPrefix+correlationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attempt: %w", err)
	}

	var attempt model.RegistrationAttempt
	if err := json.Unmarshal(payload, &attempt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attempt: %w", err)
	}
	return &attempt, nil
}
