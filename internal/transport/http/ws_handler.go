package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"ranking-quiz-service/internal/app"
	"ranking-quiz-service/internal/domain"
	"ranking-quiz-service/internal/ranking"
)

// WSHandler streams drag gestures from one player into one attempt.
type WSHandler struct {
	attempts *app.AttemptService
	scores   *app.ScoreService
	log      *zap.Logger
	upgrader websocket.Upgrader

	messageRate  rate.Limit
	messageBurst int
}

// WSOption customizes a WSHandler.
type WSOption func(*WSHandler)

// WithMessageRate throttles inbound messages per connection.
func WithMessageRate(perSecond float64, burst int) WSOption {
	return func(h *WSHandler) {
		h.messageRate = rate.Limit(perSecond)
		h.messageBurst = burst
	}
}

// NewWSHandler wires the gesture stream. scores may be nil, in which case no
// leaderboard updates are pushed.
func NewWSHandler(attempts *app.AttemptService, scores *app.ScoreService, log *zap.Logger, opts ...WSOption) *WSHandler {
	h := &WSHandler{
		attempts: attempts,
		scores:   scores,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		messageRate:  20,
		messageBurst: 40,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	return h
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type dragPayload struct {
	ItemID string         `json:"itemId"`
	Target *targetPayload `json:"target"`
}

// targetPayload names either a container ("pool", "slot-3") or an item.
type targetPayload struct {
	Container string `json:"container,omitempty"`
	Item      string `json:"item,omitempty"`
}

func (t *targetPayload) target() ranking.Target {
	switch {
	case t == nil:
		return ranking.NoTarget
	case t.Item != "":
		return ranking.ToItem(t.Item)
	case t.Container != "":
		c, err := ranking.ParseContainerID(t.Container)
		if err != nil {
			return ranking.NoTarget
		}
		return ranking.ToContainer(c)
	}
	return ranking.NoTarget
}

type attemptView struct {
	ID        string               `json:"id"`
	QuizID    string               `json:"quizId"`
	QuizTitle string               `json:"quizTitle"`
	Status    domain.AttemptStatus `json:"status"`
	Pool      []string             `json:"pool"`
	Slots     []string             `json:"slots"`
	Outcome   *ranking.Outcome     `json:"outcome,omitempty"`
	Result    *ranking.ScoreResult `json:"result,omitempty"`
}

func newAttemptView(a domain.Attempt, outcome *ranking.Outcome) attemptView {
	slots := []string{}
	if a.Model.Slots() > 0 {
		slots = a.Model.Positions()
	}
	return attemptView{
		ID:        a.ID,
		QuizID:    a.QuizID,
		QuizTitle: a.QuizTitle,
		Status:    a.Status,
		Pool:      a.Model.Pool(),
		Slots:     slots,
		Outcome:   outcome,
		Result:    a.Result,
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS upgrades the request, starts an attempt and applies gestures until
// the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	displayName := r.URL.Query().Get("name")
	if quizID == "" || userID == "" || displayName == "" {
		http.Error(w, "missing quizId, userId, or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	attempt, err := h.attempts.Start(ctx, quizID, userID, displayName)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	defer h.attempts.Abandon(context.WithoutCancel(ctx), attempt.ID)

	var updates <-chan domain.Leaderboard
	if h.scores != nil {
		ch, cancel, err := h.scores.Subscribe(ctx, attempt.QuizTitle)
		if err != nil {
			_ = conn.WriteJSON(errorMessage(err.Error()))
			return
		}
		defer cancel()
		updates = ch
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write failed", zap.String("attempt", attempt.ID), zap.Error(err))
				_ = conn.Close()
				// Keep draining so senders never block on a dead connection.
				for range send {
				}
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "leaderboard", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "attempt", Payload: newAttemptView(attempt, nil)}

	g := gesture{
		handler:   h,
		attemptID: attempt.ID,
		send:      send,
		limiter:   rate.NewLimiter(h.messageRate, h.messageBurst),
	}
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		g.handle(ctx, inbound)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// gesture holds the per-connection drag state. Only the read loop touches it.
type gesture struct {
	handler   *WSHandler
	attemptID string
	send      chan<- outboundMessage[any]
	limiter   *rate.Limiter

	active   string
	dragging bool
}

func (g *gesture) handle(ctx context.Context, inbound inboundMessage) {
	if !g.limiter.Allow() {
		g.send <- errorMessage("too many messages")
		return
	}

	switch inbound.Type {
	case "dragStart":
		var payload dragPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.ItemID == "" {
			g.send <- errorMessage("invalid dragStart payload")
			return
		}
		g.active, g.dragging = payload.ItemID, true
	case "dragCancel":
		g.active, g.dragging = "", false
	case "dragEnd":
		var payload dragPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			g.send <- errorMessage("invalid dragEnd payload")
			return
		}
		g.dragEnd(ctx, payload)
	case "shuffle":
		g.reply(g.handler.attempts.Shuffle(ctx, g.attemptID))
	case "submit":
		attempt, err := g.handler.attempts.Submit(ctx, g.attemptID)
		if err != nil {
			g.fail(err)
			return
		}
		g.send <- outboundMessage[any]{Type: "result", Payload: attempt.Result}
		g.send <- outboundMessage[any]{Type: "attempt", Payload: newAttemptView(attempt, nil)}
	case "reveal":
		g.reply(g.handler.attempts.Reveal(ctx, g.attemptID))
	default:
		g.send <- errorMessage("unsupported message type")
	}
}

// dragEnd applies the active drag. A drop with no matching dragStart changes nothing.
func (g *gesture) dragEnd(ctx context.Context, payload dragPayload) {
	dragged, ok := g.active, g.dragging
	g.active, g.dragging = "", false
	if !ok || (payload.ItemID != "" && payload.ItemID != dragged) {
		g.reply(g.handler.attempts.Get(ctx, g.attemptID))
		return
	}

	attempt, outcome, err := g.handler.attempts.Drag(ctx, g.attemptID, dragged, payload.Target.target())
	if err != nil {
		g.fail(err)
		return
	}
	g.send <- outboundMessage[any]{Type: "attempt", Payload: newAttemptView(attempt, &outcome)}
}

func (g *gesture) reply(attempt domain.Attempt, err error) {
	if err != nil {
		g.fail(err)
		return
	}
	g.send <- outboundMessage[any]{Type: "attempt", Payload: newAttemptView(attempt, nil)}
}

func (g *gesture) fail(err error) {
	switch {
	case errors.Is(err, domain.ErrAttemptLocked),
		errors.Is(err, domain.ErrAttemptNotFound),
		errors.Is(err, ranking.ErrUnknownItem):
	default:
		g.handler.log.Error("gesture failed", zap.String("attempt", g.attemptID), zap.Error(err))
	}
	g.send <- errorMessage(err.Error())
}
