package bracket

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

const DefaultPollInterval = 30 * time.Second

// Target is where fetched sets go, usually the session.
type Target interface {
	Tracked(ctx context.Context) (scoreboard.Tracked, error)
	ApplyPendingSets(ctx context.Context, pending Pending) error
}

// Poller fetches pending sets for the tracked entrants on an interval, and
// early whenever Trigger is called.
type Poller struct {
	source   Source
	target   Target
	interval time.Duration
	logger   *zap.Logger
	kick     chan struct{}
}

func NewPoller(source Source, target Target, interval time.Duration, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		source:   source,
		target:   target,
		interval: interval,
		logger:   logger,
		kick:     make(chan struct{}, 1),
	}
}

// Trigger asks for a poll as soon as possible. Never blocks; requests made
// while one is already queued are merged.
func (p *Poller) Trigger() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-p.kick:
		}
		if err := p.Poll(ctx); err != nil {
			p.logger.Warn("bracket poll failed", zap.Error(err))
		}
	}
}

// Poll runs one fetch. Nothing is fetched until both sides are known.
func (p *Poller) Poll(ctx context.Context) error {
	tracked, err := p.target.Tracked(ctx)
	if err != nil {
		return err
	}
	if tracked.P1EntrantID == 0 || tracked.P2EntrantID == 0 {
		return nil
	}

	pending, err := p.source.PendingSets(ctx, []scoreboard.EntrantID{tracked.P1EntrantID, tracked.P2EntrantID})
	if err != nil {
		return err
	}
	return p.target.ApplyPendingSets(ctx, pending)
}
