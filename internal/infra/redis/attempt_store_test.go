package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"ranking-quiz-service/internal/domain"
	"ranking-quiz-service/internal/ranking"
)

func TestAttemptStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewAttemptStore(newClient(mr), time.Minute)
	ctx := context.Background()

	model, err := ranking.NewModel(ranking.PrefillEmptySlots, 2, map[ranking.ContainerID][]string{
		ranking.Pool:    {"opt3", "opt1"},
		ranking.Slot(2): {"opt2"},
	})
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	attempt := domain.Attempt{ID: "a1", QuizID: "sushi", Model: model, Status: domain.AttemptInProgress}
	if err := store.Save(ctx, attempt); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("quiz:attempt:a1") {
		t.Fatalf("expected redis key to be set")
	}

	got, err := store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Model.Equal(model) || got.Status != domain.AttemptInProgress {
		t.Fatalf("round trip changed attempt: %+v", got)
	}
	if c, ok := got.Model.Locate("opt2"); !ok || c != ranking.Slot(2) {
		t.Fatalf("expected reverse index rebuilt, got %v %v", c, ok)
	}

	if err := store.Delete(ctx, "a1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "a1"); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAttemptStoreRejectsCorruptModel(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	_ = mr.Set("quiz:attempt:a1", `{"id":"a1","model":{"mode":"empty-slots","pool":["x"],"slots":["x"]}}`)
	store := NewAttemptStore(newClient(mr), time.Minute)
	if _, err := store.Get(context.Background(), "a1"); !errors.Is(err, ranking.ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}
