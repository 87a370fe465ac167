package app

import (
	"context"

	"ranking-quiz-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// AttemptRepository persists in-progress and finished attempts.
// Get returns domain.ErrAttemptNotFound for unknown ids.
type AttemptRepository interface {
	Save(ctx context.Context, attempt domain.Attempt) error
	Get(ctx context.Context, attemptID string) (domain.Attempt, error)
	Delete(ctx context.Context, attemptID string) error
}

// ScoreStore records submitted scores and returns the best score per user.
type ScoreStore interface {
	Record(ctx context.Context, submission domain.ScoreSubmission) error
	Best(ctx context.Context, quizTitle string) ([]domain.ScoreEntry, error)
}

// BoardRepository abstracts where leaderboards live.
type BoardRepository interface {
	GetOrCreate(ctx context.Context, quizTitle string) (*Board, error)
	Get(quizTitle string) (*Board, bool)
}

// ScoreSubmitter is the score collaborator notified after an attempt is scored.
// Its outcome never feeds back into the attempt.
type ScoreSubmitter interface {
	Submit(ctx context.Context, submission domain.ScoreSubmission) (domain.Ack, error)
}
