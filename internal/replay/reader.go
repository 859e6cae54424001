package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultAttempts = 10
	DefaultInterval = 100 * time.Millisecond
)

// Reader parses replays that may still be growing on disk. It re-reads the
// file until the header is complete or the attempt budget runs out.
type Reader struct {
	Attempts int
	Interval time.Duration
	Sleep    func(time.Duration)
	ReadFile func(name string) ([]byte, error)
	Logger   *zap.Logger
}

func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		Attempts: DefaultAttempts,
		Interval: DefaultInterval,
		Sleep:    time.Sleep,
		ReadFile: os.ReadFile,
		Logger:   logger,
	}
}

func (r *Reader) Read(path string) ([4]Player, error) {
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		data, err := r.ReadFile(path)
		if err != nil {
			return [4]Player{}, fmt.Errorf("read replay %s: %w", path, err)
		}

		players, err := Parse(data)
		if err == nil {
			return players, nil
		}
		if !errors.Is(err, ErrIncomplete) {
			return [4]Player{}, fmt.Errorf("parse replay %s: %w", path, err)
		}

		r.Logger.Debug("replay not ready",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Int("bytes", len(data)))
		if attempt < r.Attempts {
			r.Sleep(r.Interval)
		}
	}
	return [4]Player{}, fmt.Errorf("parse replay %s after %d attempts: %w", path, r.Attempts, ErrTimeout)
}
