package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/uptrace/bun"
	"ranking-quiz-service/internal/domain"
)

type scoreRow struct {
	bun.BaseModel `bun:"table:scores"`

	ID        int64     `bun:"id,pk,autoincrement"`
	QuizTitle string    `bun:"quiz_title,notnull"`
	UserName  string    `bun:"user_name,notnull"`
	Score     int       `bun:"score,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ScoreStore appends every submission to the scores table.
type ScoreStore struct {
	db *bun.DB
}

func NewScoreStore(db *bun.DB) *ScoreStore {
	return &ScoreStore{db: db}
}

func (s *ScoreStore) Record(ctx context.Context, submission domain.ScoreSubmission) error {
	row := scoreRow{
		QuizTitle: submission.QuizTitle,
		UserName:  submission.User,
		Score:     submission.Score,
	}
	_, err := s.db.NewInsert().Model(&row).ExcludeColumn("id", "created_at").Exec(ctx)
	return err
}

// Best returns each user's highest score and when it was first reached.
func (s *ScoreStore) Best(ctx context.Context, quizTitle string) ([]domain.ScoreEntry, error) {
	var rows []scoreRow
	err := s.db.NewSelect().
		Model(&rows).
		DistinctOn("user_name").
		Column("user_name", "score", "created_at").
		Where("quiz_title = ?", quizTitle).
		OrderExpr("user_name, score DESC, created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ScoreEntry, len(rows))
	for i, r := range rows {
		entries[i] = domain.ScoreEntry{User: r.UserName, Score: r.Score, RecordedAt: r.CreatedAt}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].RecordedAt.Before(entries[j].RecordedAt)
	})
	return entries, nil
}
