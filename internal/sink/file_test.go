package sink

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/mst-sync/internal/catalog"
	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

func TestFileSink_WriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoreboard.json")
	ctx := context.Background()

	board := scoreboard.NewEmpty()
	board.Tournament = "The Big House"
	board.P1 = scoreboard.Competitor{Name: "Mango", Character: catalog.Falco, Skin: catalog.SkinRed, Color: scoreboard.PortRed, Score: 1}

	s := NewFileSink()
	require.NoError(t, s.Write(ctx, path, board))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "\n  \"p1\": {"), "expected two-space indent, got:\n%s", raw)

	got, err := s.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, board, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestFileSink_ReadPartialAndMissing(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	path := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"round":"Pools","p2":{"score":1}}`), 0o644))
	got, err := NewFileSink().Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Pools", got.Round)
	assert.Equal(t, 1, got.P2.Score)
	assert.Empty(t, got.P1.Name)

	_, err = NewFileSink().Read(ctx, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
