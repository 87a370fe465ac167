package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"ranking-quiz-service/internal/domain"
	"ranking-quiz-service/internal/metrics"
	"ranking-quiz-service/internal/ranking"
)

// AttemptService contains the ranking quiz use cases for a single player.
type AttemptService struct {
	quizzes   QuizRepository
	attempts  AttemptRepository
	submitter ScoreSubmitter
	log       *zap.Logger

	now           func() time.Time
	newID         func() string
	submitTimeout time.Duration

	// mu serializes read-modify-write cycles on attempts and guards rnd.
	mu       sync.Mutex
	rnd      *rand.Rand
	inflight sync.WaitGroup
}

// AttemptOption customizes an AttemptService.
type AttemptOption func(*AttemptService)

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) AttemptOption {
	return func(s *AttemptService) { s.now = now }
}

// WithRand fixes the shuffle source.
func WithRand(rnd *rand.Rand) AttemptOption {
	return func(s *AttemptService) { s.rnd = rnd }
}

// WithIDGenerator replaces uuid-based attempt ids.
func WithIDGenerator(newID func() string) AttemptOption {
	return func(s *AttemptService) { s.newID = newID }
}

// WithSubmitTimeout bounds each background score submission.
func WithSubmitTimeout(d time.Duration) AttemptOption {
	return func(s *AttemptService) { s.submitTimeout = d }
}

// NewAttemptService wires the attempt use cases. submitter may be nil.
func NewAttemptService(quizzes QuizRepository, attempts AttemptRepository, submitter ScoreSubmitter, log *zap.Logger, opts ...AttemptOption) *AttemptService {
	s := &AttemptService{
		quizzes:       quizzes,
		attempts:      attempts,
		submitter:     submitter,
		log:           log,
		now:           time.Now,
		newID:         uuid.NewString,
		submitTimeout: 10 * time.Second,
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Quiz returns quiz content; callers must not leak the answer key to players.
func (s *AttemptService) Quiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// Start creates an attempt with every item in a shuffled pool.
func (s *AttemptService) Start(ctx context.Context, quizID, userID, displayName string) (domain.Attempt, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Attempt{}, err
	}
	reg, err := quiz.Registry()
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("quiz %q: %w", quizID, err)
	}
	model, err := quiz.Settings.NewModel(reg)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("quiz %q: %w", quizID, err)
	}

	s.mu.Lock()
	model = ranking.ShufflePool(model, s.rnd)
	s.mu.Unlock()

	now := s.now()
	attempt := domain.Attempt{
		ID:          s.newID(),
		QuizID:      quiz.ID,
		QuizTitle:   quiz.Title,
		UserID:      userID,
		DisplayName: displayName,
		Model:       model,
		Status:      domain.AttemptInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.attempts.Save(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	metrics.AttemptStarted(quiz.ID)
	s.log.Debug("attempt started",
		zap.String("attempt", attempt.ID),
		zap.String("quiz", quiz.ID),
		zap.String("user", userID))
	return attempt, nil
}

// Get returns the current state of an attempt.
func (s *AttemptService) Get(ctx context.Context, attemptID string) (domain.Attempt, error) {
	return s.attempts.Get(ctx, attemptID)
}

// Drag applies one completed drag gesture. No-op drops are not persisted and
// errors leave the stored attempt untouched.
func (s *AttemptService) Drag(ctx context.Context, attemptID, draggedID string, target ranking.Target) (domain.Attempt, ranking.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return domain.Attempt{}, ranking.Outcome{}, err
	}
	if attempt.Locked() {
		return attempt, ranking.Outcome{Kind: ranking.OutcomeNoop}, domain.ErrAttemptLocked
	}

	next, outcome, err := ranking.Transfer(attempt.Model, draggedID, target)
	if err != nil {
		return attempt, outcome, err
	}
	metrics.Drag(string(outcome.Kind))
	if outcome.Kind == ranking.OutcomeNoop {
		return attempt, outcome, nil
	}

	attempt.Model = next
	attempt.UpdatedAt = s.now()
	if err := s.attempts.Save(ctx, attempt); err != nil {
		return domain.Attempt{}, ranking.Outcome{}, err
	}
	return attempt, outcome, nil
}

// Shuffle randomizes the pool order of an in-progress attempt.
func (s *AttemptService) Shuffle(ctx context.Context, attemptID string) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if attempt.Locked() {
		return attempt, domain.ErrAttemptLocked
	}
	attempt.Model = ranking.ShufflePool(attempt.Model, s.rnd)
	attempt.UpdatedAt = s.now()
	if err := s.attempts.Save(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	return attempt, nil
}

// Submit scores the attempt and locks it. The score collaborator is notified
// in the background once the result is stored.
func (s *AttemptService) Submit(ctx context.Context, attemptID string) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if attempt.Locked() {
		return attempt, domain.ErrAttemptLocked
	}
	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.Attempt{}, err
	}
	result, err := quiz.Settings.Score(attempt.Model)
	if err != nil {
		return attempt, fmt.Errorf("quiz %q: %w", quiz.ID, err)
	}

	attempt.Result = &result
	attempt.Status = domain.AttemptSubmitted
	attempt.UpdatedAt = s.now()
	if err := s.attempts.Save(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	metrics.Submission(string(result.Policy), result.Total)
	s.log.Info("attempt submitted",
		zap.String("attempt", attempt.ID),
		zap.String("quiz", attempt.QuizID),
		zap.Int("score", result.Total))

	s.notify(attempt)
	return attempt, nil
}

// Reveal arranges the attempt to match the answer key and locks it. A score
// produced by an earlier Submit is kept.
func (s *AttemptService) Reveal(ctx context.Context, attemptID string) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if attempt.Status == domain.AttemptRevealed {
		return attempt, nil
	}
	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.Attempt{}, err
	}
	model, err := ranking.Reveal(attempt.Model, quiz.Settings.AnswerKey)
	if err != nil {
		return attempt, fmt.Errorf("quiz %q: %w", quiz.ID, err)
	}
	attempt.Model = model
	attempt.Status = domain.AttemptRevealed
	attempt.UpdatedAt = s.now()
	if err := s.attempts.Save(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	return attempt, nil
}

// Abandon drops an attempt that was never submitted.
func (s *AttemptService) Abandon(ctx context.Context, attemptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil || attempt.Locked() {
		return
	}
	if err := s.attempts.Delete(ctx, attemptID); err != nil {
		s.log.Warn("drop attempt", zap.String("attempt", attemptID), zap.Error(err))
	}
}

// Close waits for in-flight score submissions.
func (s *AttemptService) Close() {
	s.inflight.Wait()
}

func (s *AttemptService) notify(attempt domain.Attempt) {
	if s.submitter == nil || attempt.Result == nil {
		return
	}
	user := attempt.DisplayName
	if user == "" {
		user = attempt.UserID
	}
	submission := domain.ScoreSubmission{
		QuizTitle: attempt.QuizTitle,
		User:      user,
		Score:     attempt.Result.Total,
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.submitTimeout)
		defer cancel()
		if _, err := s.submitter.Submit(ctx, submission); err != nil {
			metrics.RemoteFailure()
			s.log.Warn("score submission failed",
				zap.String("attempt", attempt.ID),
				zap.Error(err))
		}
	}()
}
