package memory

import (
	"context"
	"sync"

	"ranking-quiz-service/internal/app"
	"ranking-quiz-service/internal/domain"
)

// ScoreHistory supplies previously recorded scores when a board is first created.
type ScoreHistory interface {
	Best(ctx context.Context, quizTitle string) ([]domain.ScoreEntry, error)
}

// BoardStore keeps leaderboards in process, seeding each from score history.
type BoardStore struct {
	history ScoreHistory
	mu      sync.RWMutex
	boards  map[string]*app.Board
}

// NewBoardStore creates a store; history may be nil for empty boards.
func NewBoardStore(history ScoreHistory) *BoardStore {
	return &BoardStore{
		history: history,
		boards:  make(map[string]*app.Board),
	}
}

func (s *BoardStore) GetOrCreate(ctx context.Context, quizTitle string) (*app.Board, error) {
	if board, ok := s.Get(quizTitle); ok {
		return board, nil
	}

	var history []domain.ScoreEntry
	if s.history != nil {
		var err error
		history, err = s.history.Best(ctx, quizTitle)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if board, ok := s.boards[quizTitle]; ok {
		return board, nil
	}
	board := app.NewBoard(quizTitle, history)
	s.boards[quizTitle] = board
	return board, nil
}

func (s *BoardStore) Get(quizTitle string) (*app.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.boards[quizTitle]
	return board, ok
}
