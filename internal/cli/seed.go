package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"ranking-quiz-service/internal/config"
	"ranking-quiz-service/internal/domain"
	"ranking-quiz-service/internal/infra/memory"
	"ranking-quiz-service/internal/infra/postgres"
)

// NewSeedCmd writes the quiz catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the quiz catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			quizzes, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			db := postgres.OpenBun(cfg.Postgres.URL)
			defer db.Close()
			if _, err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			list := memory.NewStaticQuizLoader(quizzes).Quizzes()
			if err := postgres.NewQuizSeeder(db).Upsert(cmd.Context(), list); err != nil {
				return err
			}
			log.Info("quizzes seeded", zap.Int("count", len(list)))
			return nil
		},
	}
}

// loadCatalog returns the configured catalog file, or the built-in quizzes.
func loadCatalog(cfg config.Config) (map[string]domain.Quiz, error) {
	if cfg.Quiz.Catalog == "" {
		return memory.DefaultCatalog(), nil
	}
	return memory.LoadCatalogFile(cfg.Quiz.Catalog)
}
