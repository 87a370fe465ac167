package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"ranking-quiz-service/internal/domain"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID        string          `bun:"id,pk"`
	Data      json.RawMessage `bun:"data,type:jsonb"`
	UpdatedAt time.Time       `bun:"updated_at,notnull"`
}

// QuizSeeder upserts quiz definitions into the quizzes table.
type QuizSeeder struct {
	db    *bun.DB
	clock func() time.Time
}

func NewQuizSeeder(db *bun.DB) *QuizSeeder {
	return &QuizSeeder{db: db, clock: time.Now}
}

// Upsert validates each quiz and writes them in one transaction.
func (s *QuizSeeder) Upsert(ctx context.Context, quizzes []domain.Quiz) error {
	rows := make([]quizRow, 0, len(quizzes))
	for _, q := range quizzes {
		if err := q.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("encode quiz %q: %w", q.ID, err)
		}
		rows = append(rows, quizRow{ID: q.ID, Data: data, UpdatedAt: s.clock()})
	}
	if len(rows) == 0 {
		return nil
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&rows).
			On("CONFLICT (id) DO UPDATE").
			Set("data = EXCLUDED.data").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
}
