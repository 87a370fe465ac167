package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"ranking-quiz-service/internal/domain"
	"ranking-quiz-service/internal/ranking"
)

// NewCheckCmd scores an arrangement against a catalog quiz without a server.
func NewCheckCmd(configPath *string) *cobra.Command {
	var quizID, order string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Score an arrangement offline",
		Example: `  ranking-quiz check --quiz sushi --order opt2,opt1,opt3,opt9,opt5
  ranking-quiz check --quiz sushi --order opt1,,opt3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			quizzes, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			quiz, ok := quizzes[quizID]
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
			}
			result, err := checkArrangement(quiz, strings.Split(order, ","))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&quizID, "quiz", "", "quiz id from the catalog")
	cmd.Flags().StringVar(&order, "order", "", "comma-separated item ids by position; leave a position blank to keep it empty")
	_ = cmd.MarkFlagRequired("quiz")
	return cmd
}

// checkArrangement builds a model from ids by position. Items not named stay in
// the pool, after the named ones in flat-pool mode.
func checkArrangement(quiz domain.Quiz, order []string) (ranking.ScoreResult, error) {
	reg, err := quiz.Registry()
	if err != nil {
		return ranking.ScoreResult{}, err
	}
	mode := quiz.Settings.Mode()
	placed := make(map[string]bool)
	contents := make(map[ranking.ContainerID][]string)
	slots := 0
	if mode == ranking.PrefillEmptySlots {
		slots = quiz.Settings.RankedPositions
	}

	for i, id := range order {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if !reg.Has(id) {
			return ranking.ScoreResult{}, fmt.Errorf("%w: %s", ranking.ErrUnknownItem, id)
		}
		placed[id] = true
		if mode == ranking.PrefillFlatPool {
			contents[ranking.Pool] = append(contents[ranking.Pool], id)
			continue
		}
		contents[ranking.Slot(i+1)] = []string{id}
	}
	for _, id := range reg.IDs() {
		if !placed[id] {
			contents[ranking.Pool] = append(contents[ranking.Pool], id)
		}
	}

	model, err := ranking.NewModel(mode, slots, contents)
	if err != nil {
		return ranking.ScoreResult{}, err
	}
	if err := model.Covers(reg); err != nil {
		return ranking.ScoreResult{}, err
	}
	return quiz.Settings.Score(model)
}
