package http

import (
	"fmt"
	"math/rand"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ranking-quiz-service/internal/app"
	"ranking-quiz-service/internal/infra/memory"
)

type fixture struct {
	attempts *app.AttemptService
	scores   *app.ScoreService
	server   *httptest.Server
}

func newFixture(t *testing.T, opts ...WSOption) *fixture {
	t.Helper()
	quizzes := memory.NewQuizRepository(memory.NewStaticQuizLoader(memory.DefaultCatalog()), time.Minute)
	scoreStore := memory.NewScoreStore()
	scores := app.NewScoreService(scoreStore, memory.NewBoardStore(scoreStore), nil)

	var seq atomic.Int64
	attempts := app.NewAttemptService(quizzes, memory.NewAttemptStore(), app.NewLocalSubmitter(scores), nil,
		app.WithRand(rand.New(rand.NewSource(7))),
		app.WithIDGenerator(func() string { return fmt.Sprintf("attempt-%d", seq.Add(1)) }),
	)

	router := NewRouter(NewWSHandler(attempts, scores, nil, opts...), NewAPIHandler(attempts, scores, nil))
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		attempts.Close()
	})
	return &fixture{attempts: attempts, scores: scores, server: server}
}
