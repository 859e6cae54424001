package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

// FileSink stores the board as pretty-printed JSON for the overlay to read.
type FileSink struct{}

func NewFileSink() *FileSink { return &FileSink{} }

// Write replaces the file through a rename so readers never see half a board.
func (FileSink) Write(_ context.Context, path string, board scoreboard.Scoreboard) error {
	payload, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scoreboard: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".scoreboard-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Read decodes the file. Fields missing from it are left zero.
func (FileSink) Read(_ context.Context, path string) (scoreboard.Scoreboard, error) {
	var board scoreboard.Scoreboard
	data, err := os.ReadFile(path)
	if err != nil {
		return board, err
	}
	if err := json.Unmarshal(data, &board); err != nil {
		return board, fmt.Errorf("decode %s: %w", path, err)
	}
	return board, nil
}
