package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"ranking-quiz-service/internal/domain"
)

// AttemptStore keeps attempts as JSON documents that expire after ttl of inactivity.
// Decoding rebuilds the ranking model through its validating constructor, so a
// corrupted document surfaces as an error instead of a repaired model.
type AttemptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{client: client, ttl: ttl}
}

func (s *AttemptStore) Save(ctx context.Context, attempt domain.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	return s.client.Set(ctx, s.key(attempt.ID), data, s.ttl).Err()
}

func (s *AttemptStore) Get(ctx context.Context, attemptID string) (domain.Attempt, error) {
	data, err := s.client.Get(ctx, s.key(attemptID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, err
	}
	var attempt domain.Attempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return domain.Attempt{}, fmt.Errorf("decode attempt %s: %w", attemptID, err)
	}
	return attempt, nil
}

func (s *AttemptStore) Delete(ctx context.Context, attemptID string) error {
	return s.client.Del(ctx, s.key(attemptID)).Err()
}

func (s *AttemptStore) key(attemptID string) string {
	return "quiz:attempt:" + attemptID
}
