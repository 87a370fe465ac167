package app

import (
	"context"

	"go.uber.org/zap"
	"ranking-quiz-service/internal/domain"
)

// ScoreService stores submitted scores and keeps leaderboards current.
type ScoreService struct {
	store  ScoreStore
	boards BoardRepository
	log    *zap.Logger
}

func NewScoreService(store ScoreStore, boards BoardRepository, log *zap.Logger) *ScoreService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScoreService{store: store, boards: boards, log: log}
}

// Record validates and stores a submission, then updates the quiz leaderboard.
func (s *ScoreService) Record(ctx context.Context, submission domain.ScoreSubmission) (domain.Ack, error) {
	if err := submission.Validate(); err != nil {
		return domain.Ack{}, err
	}
	if err := s.store.Record(ctx, submission); err != nil {
		return domain.Ack{}, err
	}
	board, err := s.boards.GetOrCreate(ctx, submission.QuizTitle)
	if err != nil {
		return domain.Ack{}, err
	}
	board.Record(submission.User, submission.Score)
	s.log.Info("score saved",
		zap.String("quiz", submission.QuizTitle),
		zap.String("user", submission.User),
		zap.Int("score", submission.Score))
	return domain.Ack{Message: "Score saved"}, nil
}

// Leaderboard returns the current best scores for a quiz title.
func (s *ScoreService) Leaderboard(ctx context.Context, quizTitle string) (domain.Leaderboard, error) {
	board, err := s.boards.GetOrCreate(ctx, quizTitle)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return board.Snapshot(), nil
}

// Subscribe returns a channel of leaderboard updates for a quiz title.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *ScoreService) Subscribe(ctx context.Context, quizTitle string) (<-chan domain.Leaderboard, func(), error) {
	board, err := s.boards.GetOrCreate(ctx, quizTitle)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := board.Subscribe()
	return ch, cancel, nil
}

// LocalSubmitter hands scores straight to a ScoreService in the same process.
type LocalSubmitter struct {
	scores *ScoreService
}

func NewLocalSubmitter(scores *ScoreService) *LocalSubmitter {
	return &LocalSubmitter{scores: scores}
}

func (l *LocalSubmitter) Submit(ctx context.Context, submission domain.ScoreSubmission) (domain.Ack, error) {
	return l.scores.Record(ctx, submission)
}
