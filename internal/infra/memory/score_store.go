package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ranking-quiz-service/internal/domain"
)

// ScoreStore keeps every submission in memory.
type ScoreStore struct {
	clock func() time.Time
	mu    sync.RWMutex
	log   map[string][]domain.ScoreEntry
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		clock: time.Now,
		log:   make(map[string][]domain.ScoreEntry),
	}
}

func (s *ScoreStore) Record(_ context.Context, submission domain.ScoreSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log[submission.QuizTitle] = append(s.log[submission.QuizTitle], domain.ScoreEntry{
		User:       submission.User,
		Score:      submission.Score,
		RecordedAt: s.clock(),
	})
	return nil
}

// Best returns each user's highest score, earliest first among equals.
func (s *ScoreStore) Best(_ context.Context, quizTitle string) ([]domain.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := make(map[string]domain.ScoreEntry)
	for _, e := range s.log[quizTitle] {
		if cur, ok := best[e.User]; !ok || e.Score > cur.Score {
			best[e.User] = e
		}
	}
	out := make([]domain.ScoreEntry, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out, nil
}
