package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/DoyleJ11/mst-sync/internal/engine"
	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
	"github.com/DoyleJ11/mst-sync/internal/session"
)

type stateResponse struct {
	Version int                   `json:"version"`
	Board   scoreboard.Scoreboard `json:"board"`
	Tracked struct {
		P1EntrantID scoreboard.EntrantID `json:"p1EntrantId,omitempty"`
		P2EntrantID scoreboard.EntrantID `json:"p2EntrantId,omitempty"`
		SetID       scoreboard.SetID     `json:"setId,omitempty"`
	} `json:"tracked"`
}

func GetScoreboard(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.State(r.Context())
		if err != nil {
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}

		var resp stateResponse
		resp.Version = v.Version
		resp.Board = v.Board
		resp.Tracked.P1EntrantID = v.Tracked.P1EntrantID
		resp.Tracked.P2EntrantID = v.Tracked.P2EntrantID
		resp.Tracked.SetID = v.Tracked.SetID
		writeJSON(w, http.StatusOK, resp)
	}
}

// PutScoreboard is the operator override: the body replaces every field.
func PutScoreboard(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var board scoreboard.Scoreboard
		if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := s.ApplyManual(r.Context(), board); err != nil {
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func PostGameEnd(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			P1 bool `json:"p1"`
			P2 bool `json:"p2"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := s.ApplyGameEnd(r.Context(), engine.GameEnd{P1: body.P1, P2: body.P2}); err != nil {
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func PostReset(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Reset(r.Context()); err != nil {
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
