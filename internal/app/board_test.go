package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ranking-quiz-service/internal/app"
	"ranking-quiz-service/internal/domain"
	"ranking-quiz-service/internal/infra/memory"
)

func TestBoardOrdersByScoreThenArrival(t *testing.T) {
	now := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	board := app.NewBoardWithClock("Sushi", nil, clock)

	board.Record("carol", 5)
	now = now.Add(time.Second)
	board.Record("alice", 8)
	now = now.Add(time.Second)
	board.Record("bob", 5)
	now = now.Add(time.Second)
	lb := board.Record("carol", 3) // lower score is ignored

	want := []domain.LeaderboardEntry{
		{User: "alice", Score: 8},
		{User: "carol", Score: 5},
		{User: "bob", Score: 5},
	}
	if len(lb.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), lb.Entries)
	}
	for i := range want {
		if lb.Entries[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], lb.Entries[i])
		}
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	scores := app.NewScoreService(memory.NewScoreStore(), memory.NewBoardStore(nil), nil)

	ch, cancel, err := scores.Subscribe(ctx, "Sushi")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	initial := <-ch
	if len(initial.Entries) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial.Entries)
	}

	ack, err := scores.Record(ctx, domain.ScoreSubmission{QuizTitle: "Sushi", User: "alice", Score: 12})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if ack.Message != "Score saved" {
		t.Fatalf("unexpected ack %+v", ack)
	}

	update := <-ch
	if len(update.Entries) != 1 || update.Entries[0].Score != 12 {
		t.Fatalf("expected updated score 12, got %+v", update.Entries)
	}
}

func TestRecordRejectsInvalidSubmission(t *testing.T) {
	scores := app.NewScoreService(memory.NewScoreStore(), memory.NewBoardStore(nil), nil)
	_, err := scores.Record(context.Background(), domain.ScoreSubmission{QuizTitle: "Sushi", Score: 3})
	if !errors.Is(err, domain.ErrInvalidSubmission) {
		t.Fatalf("expected invalid submission, got %v", err)
	}
}

func TestSubscribeDuringConcurrentRecords(t *testing.T) {
	board := app.NewBoard("Sushi", nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 500; i++ {
			board.Record("alice", i)
		}
	}()

	subscribed := make(chan struct{})
	go func() {
		defer close(subscribed)
		for i := 0; i < 50; i++ {
			ch, cancel := board.Subscribe()
			<-ch
			cancel()
		}
	}()

	for _, c := range []chan struct{}{done, subscribed} {
		select {
		case <-c:
		case <-time.After(5 * time.Second):
			t.Fatalf("subscribe blocked behind concurrent records")
		}
	}

	ch, cancel := board.Subscribe()
	defer cancel()
	if lb := <-ch; len(lb.Entries) != 1 || lb.Entries[0].Score != 500 {
		t.Fatalf("expected latest snapshot first, got %+v", lb.Entries)
	}
}
