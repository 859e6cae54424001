package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/mst-sync/internal/overlay"
	"github.com/DoyleJ11/mst-sync/internal/session"
	"github.com/DoyleJ11/mst-sync/internal/ws"
)

func SetupRoutes(s *session.Session, h *overlay.Hub, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/scoreboard", GetScoreboard(s))
	r.Put("/scoreboard", PutScoreboard(s))
	r.Post("/scoreboard/game-end", PostGameEnd(s))
	r.Post("/session/reset", PostReset(s))
	r.Get("/ws", ws.Handler(h, s, logger))
	return r
}
