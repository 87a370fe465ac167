package http

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"ranking-quiz-service/internal/domain"
	"ranking-quiz-service/internal/ranking"
)

func TestWebSocketGestureFlow(t *testing.T) {
	f := newFixture(t)
	conn := dial(t, f, "sushi", "u1", "Alice")

	var view attemptView
	readPayload(t, conn, "attempt", &view)
	if len(view.Pool) != 10 || !slices.Equal(view.Slots, []string{"", "", "", "", ""}) {
		t.Fatalf("unexpected initial attempt %+v", view)
	}

	// A drop with no dragStart leaves the arrangement alone.
	send(t, conn, "dragEnd", map[string]any{"itemId": "opt1", "target": map[string]any{"container": "slot-1"}})
	readPayload(t, conn, "attempt", &view)
	if view.Slots[0] != "" {
		t.Fatalf("expected slot-1 empty, got %v", view.Slots)
	}

	send(t, conn, "dragStart", map[string]any{"itemId": "opt1"})
	send(t, conn, "dragEnd", map[string]any{"itemId": "opt1", "target": map[string]any{"container": "slot-1"}})
	readPayload(t, conn, "attempt", &view)
	if view.Slots[0] != "opt1" || view.Outcome == nil || view.Outcome.Kind != ranking.OutcomeMoved {
		t.Fatalf("expected opt1 moved into slot-1, got %+v", view)
	}

	// Cancelled drags do nothing either.
	send(t, conn, "dragStart", map[string]any{"itemId": "opt2"})
	send(t, conn, "dragCancel", nil)
	send(t, conn, "dragEnd", map[string]any{"target": map[string]any{"item": "opt1"}})
	readPayload(t, conn, "attempt", &view)
	if view.Slots[0] != "opt1" || slices.Contains(view.Slots, "opt2") {
		t.Fatalf("expected cancelled drag to be ignored, got %v", view.Slots)
	}

	send(t, conn, "submit", nil)
	var result ranking.ScoreResult
	readPayload(t, conn, "result", &result)
	if result.Total != 6 || result.MaxScore != 10 {
		t.Fatalf("expected 6 of 10, got %+v", result)
	}
	readPayload(t, conn, "attempt", &view)
	if view.Status != domain.AttemptSubmitted {
		t.Fatalf("expected submitted, got %s", view.Status)
	}

	ranked := false
	for i := 0; i < 3 && !ranked; i++ {
		var lb domain.Leaderboard
		readPayload(t, conn, "leaderboard", &lb)
		ranked = len(lb.Entries) == 1 && lb.Entries[0].User == "Alice" && lb.Entries[0].Score == 6
	}
	if !ranked {
		t.Fatalf("expected Alice on the leaderboard")
	}

	send(t, conn, "dragStart", map[string]any{"itemId": "opt2"})
	send(t, conn, "dragEnd", map[string]any{"target": map[string]any{"container": "slot-2"}})
	var errMsg errorPayload
	readPayload(t, conn, "error", &errMsg)
	if errMsg.Message != domain.ErrAttemptLocked.Error() {
		t.Fatalf("expected locked error, got %q", errMsg.Message)
	}
}

func TestWebSocketRevealAndShuffle(t *testing.T) {
	f := newFixture(t)
	conn := dial(t, f, "mountains", "u1", "Bob")

	var view attemptView
	readPayload(t, conn, "attempt", &view)
	if len(view.Slots) != 0 || len(view.Pool) != 10 {
		t.Fatalf("expected flat pool, got %+v", view)
	}
	before := view.Pool

	send(t, conn, "shuffle", nil)
	readPayload(t, conn, "attempt", &view)
	if slices.Equal(before, view.Pool) {
		t.Fatalf("expected shuffle to reorder the pool")
	}

	send(t, conn, "reveal", nil)
	readPayload(t, conn, "attempt", &view)
	want := []string{"opt1", "opt2", "opt3", "opt4", "opt5", "opt6", "opt7", "opt8", "opt9", "opt10"}
	if view.Status != domain.AttemptRevealed || !slices.Equal(view.Pool, want) {
		t.Fatalf("expected revealed answer, got %+v", view)
	}
}

func TestWebSocketRateLimit(t *testing.T) {
	f := newFixture(t, WithMessageRate(0.001, 1))
	conn := dial(t, f, "sushi", "u1", "Alice")
	readPayload(t, conn, "attempt", new(attemptView))

	send(t, conn, "shuffle", nil)
	readPayload(t, conn, "attempt", new(attemptView))
	send(t, conn, "shuffle", nil)
	var errMsg errorPayload
	readPayload(t, conn, "error", &errMsg)
	if errMsg.Message != "too many messages" {
		t.Fatalf("expected throttling, got %q", errMsg.Message)
	}
}

func TestWebSocketUnknownQuiz(t *testing.T) {
	f := newFixture(t)
	conn := dial(t, f, "nope", "u1", "Alice")
	var errMsg errorPayload
	readPayload(t, conn, "error", &errMsg)
	if errMsg.Message != domain.ErrQuizNotFound.Error() {
		t.Fatalf("expected quiz not found, got %q", errMsg.Message)
	}
}

func dial(t *testing.T, f *fixture, quizID, userID, name string) *websocket.Conn {
	t.Helper()
	u := "ws" + f.server.URL[len("http"):] + "/ws?quizId=" + quizID + "&userId=" + userID + "&name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readPayload skips messages of other types (leaderboard pushes arrive at any time).
func readPayload(t *testing.T, conn *websocket.Conn, expect string, into any) {
	t.Helper()
	for i := 0; i < 10; i++ {
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type != expect {
			continue
		}
		if err := json.Unmarshal(msg.Payload, into); err != nil {
			t.Fatalf("decode %s payload: %v", expect, err)
		}
		return
	}
	t.Fatalf("no %s message received", expect)
}
