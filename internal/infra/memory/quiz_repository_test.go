package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ranking-quiz-service/internal/domain"
	"ranking-quiz-service/internal/ranking"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{QuizLoader: NewStaticQuizLoader(DefaultCatalog())}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "sushi"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	if _, err := repo.GetQuiz(context.Background(), "sushi"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
}

func TestQuizRepositoryExpires(t *testing.T) {
	loader := &countingLoader{QuizLoader: NewStaticQuizLoader(DefaultCatalog())}
	repo := NewQuizRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetQuiz(context.Background(), "mountains"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "mountains"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.count() != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.count())
	}
}

func TestQuizRepositoryRejectsInvalidQuiz(t *testing.T) {
	broken := domain.Quiz{
		ID:    "broken",
		Title: "Broken",
		Items: []ranking.Item{{ID: "a"}},
		Settings: ranking.Config{
			Policy:          ranking.PolicyExact,
			RankedPositions: 1,
			AnswerKey:       []string{"missing"},
		},
	}
	repo := NewQuizRepository(NewStaticQuizLoader(map[string]domain.Quiz{"broken": broken}), time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "broken"); !errors.Is(err, ranking.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := repo.GetQuiz(context.Background(), "nope"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	QuizLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
