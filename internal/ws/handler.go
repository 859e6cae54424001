package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/mst-sync/internal/engine"
	"github.com/DoyleJ11/mst-sync/internal/overlay"
	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
	"github.com/DoyleJ11/mst-sync/internal/session"
	"github.com/DoyleJ11/mst-sync/internal/types"
)

// Handler pushes every board to the overlay and accepts operator commands
// on the same connection.
func Handler(h *overlay.Hub, s *session.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// Overlays are served from browser sources on other origins.
			InsecureSkipVerify: true,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan scoreboard.Scoreboard, 8)
		clientID := uuid.NewString()
		logger.Debug("overlay connected", zap.String("client", clientID))

		if err := h.Join(r.Context(), clientID, out); err != nil {
			return
		}
		defer h.Leave(clientID)

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for board := range out {
				msg := types.ServerMessage{Type: "Scoreboard", Board: &board}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					logger.Debug("overlay read ended", zap.String("client", clientID), zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}
			if err := dispatch(r.Context(), s, cm); err != nil {
				writeError(r.Context(), conn, err.Error())
			}
		}
	}
}

type dispatchError string

func (e dispatchError) Error() string { return string(e) }

func dispatch(ctx context.Context, s *session.Session, m types.ClientMessage) error {
	switch m.Type {
	case "Manual":
		if m.Board == nil {
			return dispatchError("missing board")
		}
		return s.ApplyManual(ctx, *m.Board)
	case "GameEnd":
		return s.ApplyGameEnd(ctx, engine.GameEnd{P1: m.P1, P2: m.P2})
	default:
		return dispatchError("unknown type")
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
