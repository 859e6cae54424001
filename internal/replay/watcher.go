package replay

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

type NewGame struct {
	Path    string
	Players [4]Player
}

// Watcher polls a replay folder and parses each file that shows up after it
// starts. Files present at startup are treated as already seen.
type Watcher struct {
	Dir      string
	Interval time.Duration
	Reader   *Reader
	Logger   *zap.Logger

	seen map[string]bool
}

func NewWatcher(dir string, interval time.Duration, reader *Reader, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{Dir: dir, Interval: interval, Reader: reader, Logger: logger}
}

// Run blocks until ctx is done, sending one NewGame per parsed file.
func (w *Watcher) Run(ctx context.Context, out chan<- NewGame) error {
	w.seen = map[string]bool{}
	for _, name := range w.scan() {
		w.seen[name] = true
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.poll(ctx, out)
		}
	}
}

func (w *Watcher) poll(ctx context.Context, out chan<- NewGame) {
	for _, name := range w.scan() {
		if w.seen[name] {
			continue
		}
		w.seen[name] = true

		path := filepath.Join(w.Dir, name)
		players, err := w.Reader.Read(path)
		if err != nil {
			w.Logger.Warn("skipping replay", zap.String("path", path), zap.Error(err))
			continue
		}
		select {
		case out <- NewGame{Path: path, Players: players}:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) scan() []string {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		w.Logger.Warn("cannot read replay folder", zap.String("dir", w.Dir), zap.Error(err))
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".slp") {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}
