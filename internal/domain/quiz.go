package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"ranking-quiz-service/internal/ranking"
)

var validate = validator.New()

// Quiz is a ranking question: the items to order and how answers are scored.
type Quiz struct {
	ID       string         `json:"id" yaml:"id" validate:"required"`
	Title    string         `json:"title" yaml:"title" validate:"required"`
	Question string         `json:"question" yaml:"question"`
	Items    []ranking.Item `json:"items" yaml:"items" validate:"required,min=1,dive"`
	Settings ranking.Config `json:"settings" yaml:"settings"`
}

// Registry builds the item registry for the quiz.
func (q Quiz) Registry() (*ranking.Registry, error) {
	return ranking.NewRegistry(q.Items)
}

// Validate checks required fields and the ranking configuration.
func (q Quiz) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("quiz %q: %w", q.ID, err)
	}
	reg, err := q.Registry()
	if err != nil {
		return fmt.Errorf("quiz %q: %w", q.ID, err)
	}
	if err := q.Settings.Validate(reg); err != nil {
		return fmt.Errorf("quiz %q: %w", q.ID, err)
	}
	return nil
}

// QuizView is what players see: everything but the answer key.
type QuizView struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Question        string              `json:"question"`
	Items           []ranking.Item      `json:"items"`
	RankedPositions int                 `json:"rankedPositions"`
	Prefill         ranking.PrefillMode `json:"prefill"`
	Policy          ranking.Policy      `json:"policy"`
	MaxScore        int                 `json:"maxScore"`
}

func (q Quiz) View() QuizView {
	return QuizView{
		ID:              q.ID,
		Title:           q.Title,
		Question:        q.Question,
		Items:           q.Items,
		RankedPositions: q.Settings.RankedPositions,
		Prefill:         q.Settings.Mode(),
		Policy:          q.Settings.Policy,
		MaxScore:        q.Settings.MaxScore(),
	}
}
