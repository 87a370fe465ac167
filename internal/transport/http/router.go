package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts every route the service exposes.
func NewRouter(ws *WSHandler, api *APIHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/ws", ws.ServeWS)
	mux.HandleFunc("POST /api/score", api.SubmitScore)
	mux.HandleFunc("GET /api/quizzes/{id}", api.Quiz)
	mux.HandleFunc("GET /api/leaderboards/{title}", api.Leaderboard)
	return mux
}
