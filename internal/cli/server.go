package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"ranking-quiz-service/internal/app"
	"ranking-quiz-service/internal/config"
	"ranking-quiz-service/internal/infra/memory"
	"ranking-quiz-service/internal/infra/postgres"
	redisstore "ranking-quiz-service/internal/infra/redis"
	"ranking-quiz-service/internal/infra/remote"
	transport "ranking-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := resolvePort(portFlag, cfg)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	var loader memory.QuizLoader = memory.NewStaticQuizLoader(catalog)
	if pool != nil {
		loader = postgres.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisstore.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	attemptTTL := config.TTLDuration(cfg.Attempts.TTL, config.TTLDuration(cfg.Redis.TTL, time.Hour))
	var attemptStore app.AttemptRepository
	if redisClient != nil {
		attemptStore = redisstore.NewAttemptStore(redisClient, attemptTTL)
	} else {
		attemptStore = memory.NewAttemptStore()
	}

	var scoreStore app.ScoreStore
	switch {
	case cfg.Postgres.URL != "":
		bunDB := postgres.OpenBun(cfg.Postgres.URL)
		defer bunDB.Close()
		scoreStore = postgres.NewScoreStore(bunDB)
	case redisClient != nil:
		scoreStore = redisstore.NewScoreStore(redisClient)
	default:
		scoreStore = memory.NewScoreStore()
	}
	scores := app.NewScoreService(scoreStore, memory.NewBoardStore(scoreStore), log.Named("scores"))

	var submitter app.ScoreSubmitter = app.NewLocalSubmitter(scores)
	if cfg.Score.RemoteURL != "" {
		submitter = remote.NewSubmitter(cfg.Score.RemoteURL, log.Named("remote"))
	}
	attempts := app.NewAttemptService(quizRepo, attemptStore, submitter, log.Named("attempts"),
		app.WithSubmitTimeout(config.TTLDuration(cfg.Score.Timeout, 10*time.Second)))
	defer attempts.Close()

	var wsOpts []transport.WSOption
	if cfg.Server.MessageRate > 0 {
		burst := cfg.Server.MessageBurst
		if burst == 0 {
			burst = int(cfg.Server.MessageRate) + 1
		}
		wsOpts = append(wsOpts, transport.WithMessageRate(cfg.Server.MessageRate, burst))
	}
	router := transport.NewRouter(
		transport.NewWSHandler(attempts, scores, log.Named("ws"), wsOpts...),
		transport.NewAPIHandler(attempts, scores, log.Named("api")),
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// resolvePort prefers --port (or $PORT), then server.port, then 8080.
func resolvePort(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Server.Port != "" {
		return cfg.Server.Port
	}
	return "8080"
}
