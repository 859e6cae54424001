package session

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/mst-sync/internal/bracket"
	"github.com/DoyleJ11/mst-sync/internal/engine"
	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

var ErrClosed = errors.New("session closed")

type Msg interface{ isSessionMsg() }

type NewFile struct{ Update engine.NewFile }

func (NewFile) isSessionMsg() {}

type PendingSets struct{ Pending bracket.Pending }

func (PendingSets) isSessionMsg() {}

type GameEnd struct{ Update engine.GameEnd }

func (GameEnd) isSessionMsg() {}

type Manual struct{ Board scoreboard.Scoreboard }

func (Manual) isSessionMsg() {}

type Configure struct{ Settings Settings }

func (Configure) isSessionMsg() {}

type Reset struct{}

func (Reset) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type Settings struct {
	Enabled        bool
	OutputPath     string
	SponsorDisplay bool
	SkinDisplay    bool
}

type View struct {
	Version  int
	Board    scoreboard.Scoreboard
	Tracked  scoreboard.Tracked
	Settings Settings
}

// Sink is durable storage for the persisted board.
type Sink interface {
	Write(ctx context.Context, path string, board scoreboard.Scoreboard) error
	Read(ctx context.Context, path string) (scoreboard.Scoreboard, error)
}

// Notifier receives the in-memory board after every write.
type Notifier interface {
	Notify(ctx context.Context, board scoreboard.Scoreboard) error
}

type Config struct {
	Settings  Settings
	Sink      Sink
	Notifiers []Notifier
	Logger    *zap.Logger

	// OnRequestBracketData runs on the session goroutine and must not block.
	OnRequestBracketData func()

	WriteTimeout time.Duration
}

// Session owns the scoreboard. Every transition and its write run on one
// goroutine, so updates from the watcher, poller, game events and the UI
// queue up instead of interleaving.
type Session struct {
	inbox    chan Msg
	state    engine.State
	settings Settings
	version  int
	cfg      Config
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(parent context.Context, cfg Config) *Session {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	s := &Session{
		inbox:  make(chan Msg, 64),
		state:  engine.NewEmptyState(),
		cfg:    cfg,
		log:    cfg.Logger,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.configure(cfg.Settings)

	go s.loop()
	return s
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case NewFile:
				next, effects := engine.ApplyNewFile(s.state, msg.Update, s.options())
				s.commit(next)
				if effects.RequestBracketData && s.cfg.OnRequestBracketData != nil {
					s.cfg.OnRequestBracketData()
				}

			case PendingSets:
				next, ok := engine.ApplyPendingSets(s.state, msg.Pending, s.options())
				if !ok {
					break
				}
				s.commit(next)

			case GameEnd:
				s.commit(engine.ApplyGameEnd(s.state, msg.Update))

			case Manual:
				s.commit(engine.ApplyManual(s.state, msg.Board))

			case Configure:
				s.configure(msg.Settings)

			case Reset:
				s.commit(engine.NewEmptyState())

			case GetState:
				msg.Reply <- View{
					Version:  s.version,
					Board:    s.state.Board,
					Tracked:  s.state.Tracked,
					Settings: s.settings,
				}

			case Shutdown:
				s.cancel()
				return
			}
		}
	}
}

func (s *Session) options() engine.Options {
	return engine.Options{
		SponsorDisplay: s.settings.SponsorDisplay,
		SkinDisplay:    s.settings.SkinDisplay,
	}
}

func (s *Session) commit(next engine.State) {
	s.state = next
	s.version++
	s.write()
}

func (s *Session) write() {
	if !s.settings.Enabled || s.settings.OutputPath == "" {
		return
	}

	display, persisted := engine.Finalize(s.state.Board, s.options())
	s.state.Board = display

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.WriteTimeout)
	defer cancel()
	if s.cfg.Sink != nil {
		if err := s.cfg.Sink.Write(ctx, s.settings.OutputPath, persisted); err != nil {
			s.log.Error("scoreboard write failed", zap.String("path", s.settings.OutputPath), zap.Error(err))
		}
	}
	s.notify(ctx, display)
}

func (s *Session) notify(ctx context.Context, board scoreboard.Scoreboard) {
	for _, n := range s.cfg.Notifiers {
		if err := n.Notify(ctx, board); err != nil {
			s.log.Warn("scoreboard notify failed", zap.Error(err))
		}
	}
}

// configure applies new settings. Turning the feature on, or pointing it
// at a new file, seeds the board from that file.
func (s *Session) configure(next Settings) {
	prev := s.settings
	s.settings = next

	if !next.Enabled || next.OutputPath == "" {
		return
	}
	if prev.Enabled && prev.OutputPath == next.OutputPath {
		return
	}
	if s.cfg.Sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.WriteTimeout)
	defer cancel()
	board, err := s.cfg.Sink.Read(ctx, next.OutputPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Info("no scoreboard file yet", zap.String("path", next.OutputPath))
		return
	case err != nil:
		s.log.Warn("scoreboard seed failed", zap.String("path", next.OutputPath), zap.Error(err))
		return
	}
	s.state.Board = engine.FromPersisted(board, s.options())
	s.version++
	s.notify(ctx, s.state.Board)
}

// Expose the inbox so tests or transport layers can send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) send(ctx context.Context, m Msg) error {
	select {
	case s.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrClosed
	}
}

func (s *Session) ApplyNewFile(ctx context.Context, u engine.NewFile) error {
	return s.send(ctx, NewFile{Update: u})
}

func (s *Session) ApplyPendingSets(ctx context.Context, p bracket.Pending) error {
	return s.send(ctx, PendingSets{Pending: p})
}

func (s *Session) ApplyGameEnd(ctx context.Context, u engine.GameEnd) error {
	return s.send(ctx, GameEnd{Update: u})
}

func (s *Session) ApplyManual(ctx context.Context, b scoreboard.Scoreboard) error {
	return s.send(ctx, Manual{Board: b})
}

func (s *Session) Configure(ctx context.Context, settings Settings) error {
	return s.send(ctx, Configure{Settings: settings})
}

func (s *Session) Reset(ctx context.Context) error {
	return s.send(ctx, Reset{})
}

func (s *Session) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-s.done:
		return View{}, ErrClosed
	}
}

func (s *Session) Tracked(ctx context.Context) (scoreboard.Tracked, error) {
	v, err := s.State(ctx)
	return v.Tracked, err
}
