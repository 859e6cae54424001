package engine

import "github.com/DoyleJ11/mst-sync/internal/scoreboard"

func NewEmptyState() State {
	return State{Board: scoreboard.NewEmpty()}
}

// FromPersisted turns a board read back from the output file into its
// in-memory form under the given display options.
func FromPersisted(board scoreboard.Scoreboard, opts Options) scoreboard.Scoreboard {
	display, _ := Finalize(board, opts)
	return display
}
