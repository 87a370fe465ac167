package memory

import (
	"context"
	"sync"

	"ranking-quiz-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]domain.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]domain.Attempt),
	}
}

// Save stores the attempt. Models are immutable values, so no deep copy is needed.
func (s *AttemptStore) Save(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ID] = attempt
	return nil
}

func (s *AttemptStore) Get(_ context.Context, attemptID string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *AttemptStore) Delete(_ context.Context, attemptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, attemptID)
	return nil
}
