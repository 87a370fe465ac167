package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"ranking-quiz-service/internal/app"
	"ranking-quiz-service/internal/domain"
)

// APIHandler serves the JSON endpoints next to the websocket.
type APIHandler struct {
	attempts *app.AttemptService
	scores   *app.ScoreService
	log      *zap.Logger
}

func NewAPIHandler(attempts *app.AttemptService, scores *app.ScoreService, log *zap.Logger) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{attempts: attempts, scores: scores, log: log}
}

// SubmitScore handles POST /api/score.
func (h *APIHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var submission domain.ScoreSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ack, err := h.scores.Record(r.Context(), submission)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// Quiz handles GET /api/quizzes/{id}. The answer key is never included.
func (h *APIHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.attempts.Quiz(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz.View())
}

// Leaderboard handles GET /api/leaderboards/{title}.
func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.scores.Leaderboard(r.Context(), r.PathValue("title"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *APIHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSubmission):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQuizNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("api request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Message: msg})
}
