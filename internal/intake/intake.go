package intake

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/mst-sync/internal/bracket"
	"github.com/DoyleJ11/mst-sync/internal/engine"
	"github.com/DoyleJ11/mst-sync/internal/replay"
	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

type Target interface {
	ApplyNewFile(ctx context.Context, u engine.NewFile) error
}

// Intake turns a parsed replay into a new-file update for the session,
// resolving connect codes to bracket entrants when a directory is set and
// attaching the set both entrants are playing when sets are available.
type Intake struct {
	Target    Target
	Reader    *replay.Reader
	Directory bracket.Directory
	Sets      bracket.Source
	Logger    *zap.Logger
}

func New(target Target, reader *replay.Reader, dir bracket.Directory, sets bracket.Source, logger *zap.Logger) *Intake {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Intake{Target: target, Reader: reader, Directory: dir, Sets: sets, Logger: logger}
}

// HandlePath parses the replay at path and forwards its lineup.
func (i *Intake) HandlePath(ctx context.Context, path string) error {
	players, err := i.Reader.Read(path)
	if err != nil {
		return err
	}
	return i.HandleGame(ctx, players)
}

func (i *Intake) HandleGame(ctx context.Context, players [4]replay.Player) error {
	left, right, ok := replay.Lineup(players)
	if !ok {
		i.Logger.Debug("not a singles game, ignoring")
		return nil
	}

	u := engine.NewFile{P1: i.side(ctx, left), P2: i.side(ctx, right)}
	u.Set = i.set(ctx, u.P1.EntrantID, u.P2.EntrantID)
	return i.Target.ApplyNewFile(ctx, u)
}

// set looks up the one pending set shared by both entrants. Without it the
// session treats the game as a new set and asks for bracket data.
func (i *Intake) set(ctx context.Context, p1, p2 scoreboard.EntrantID) *engine.SetSnapshot {
	if i.Sets == nil || p1 == 0 || p2 == 0 {
		return nil
	}

	pending, err := i.Sets.PendingSets(ctx, []scoreboard.EntrantID{p1, p2})
	if err != nil {
		i.Logger.Warn("pending sets lookup failed", zap.Error(err))
		return nil
	}
	set, ok := bracket.FindSharedSet(pending, p1, p2)
	if !ok {
		return nil
	}
	snap := engine.SnapshotFromSet(set, p1)
	return &snap
}

func (i *Intake) side(ctx context.Context, f replay.Fighter) engine.Side {
	s := engine.Side{Character: f.Character, Skin: f.Skin}
	if i.Directory == nil || f.ConnectCode == "" {
		return s
	}

	e, ok, err := i.Directory.EntrantByConnectCode(ctx, f.ConnectCode)
	if err != nil {
		i.Logger.Warn("entrant lookup failed", zap.String("code", f.ConnectCode), zap.Error(err))
		return s
	}
	if !ok {
		return s
	}
	s.EntrantID, s.Name, s.Team = e.ID, e.Name, e.Prefix
	return s
}
