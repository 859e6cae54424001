package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvGame(t *testing.T, ch <-chan NewGame, within time.Duration) NewGame {
	t.Helper()
	select {
	case g := <-ch:
		return g
	case <-time.After(within):
		t.Fatalf("timed out waiting for new game")
		return NewGame{}
	}
}

func TestWatcher_EmitsOnlyNewReplays(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.slp"), sampleReplay(t), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	r := NewReader(nil)
	r.Sleep = func(time.Duration) {}
	w := NewWatcher(dir, 10*time.Millisecond, r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan NewGame, 4)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, out) }()

	// give the watcher a moment to take its initial listing
	time.Sleep(50 * time.Millisecond)
	path := filepath.Join(dir, "Game_2.slp")
	require.NoError(t, os.WriteFile(path, sampleReplay(t), 0o644))

	g := recvGame(t, out, time.Second)
	assert.Equal(t, path, g.Path)
	assert.Equal(t, "XY#9", g.Players[1].ConnectCode)

	select {
	case g := <-out:
		t.Fatalf("unexpected extra game %s", g.Path)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}
