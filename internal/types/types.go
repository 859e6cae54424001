package types

import "github.com/DoyleJ11/mst-sync/internal/scoreboard"

type ClientMessage struct {
	Type  string                 `json:"type"` // "Manual" | "GameEnd"
	Board *scoreboard.Scoreboard `json:"board,omitempty"`
	P1    bool                   `json:"p1,omitempty"`
	P2    bool                   `json:"p2,omitempty"`
}

type ServerMessage struct {
	Type  string                 `json:"type"` // "Scoreboard" | "Error"
	Board *scoreboard.Scoreboard `json:"board,omitempty"`
	Error string                 `json:"error,omitempty"`
}
