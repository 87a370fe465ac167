package domain

import (
	"fmt"
	"time"

	"ranking-quiz-service/internal/ranking"
)

// AttemptStatus tracks whether an attempt still accepts drags.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in-progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptRevealed   AttemptStatus = "revealed"
)

// Attempt is one player's arrangement of one quiz.
type Attempt struct {
	ID          string               `json:"id"`
	QuizID      string               `json:"quizId"`
	QuizTitle   string               `json:"quizTitle"`
	UserID      string               `json:"userId"`
	DisplayName string               `json:"displayName"`
	Model       ranking.Model        `json:"model"`
	Status      AttemptStatus        `json:"status"`
	Result      *ranking.ScoreResult `json:"result,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Locked reports whether the arrangement is frozen.
func (a Attempt) Locked() bool {
	return a.Status != AttemptInProgress
}

// ScoreSubmission is the payload sent to the score collaborator.
type ScoreSubmission struct {
	QuizTitle string `json:"quizTitle" validate:"required"`
	User      string `json:"user" validate:"required"`
	Score     int    `json:"score" validate:"gte=0"`
}

func (s ScoreSubmission) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	return nil
}

// Ack acknowledges a stored score.
type Ack struct {
	Message string `json:"message"`
}

// ScoreEntry is one recorded best score.
type ScoreEntry struct {
	User       string    `json:"user"`
	Score      int       `json:"score"`
	RecordedAt time.Time `json:"recordedAt"`
}

// LeaderboardEntry is a snapshot-friendly view of a player's best score.
type LeaderboardEntry struct {
	User  string `json:"user"`
	Score int    `json:"score"`
}

// Leaderboard captures the ordered scoreboard for a quiz.
type Leaderboard struct {
	QuizTitle string             `json:"quizTitle"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
