package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/DoyleJ11/mst-sync/internal/archive"
	"github.com/DoyleJ11/mst-sync/internal/bracket"
	"github.com/DoyleJ11/mst-sync/internal/config"
	"github.com/DoyleJ11/mst-sync/internal/httpapi"
	"github.com/DoyleJ11/mst-sync/internal/intake"
	"github.com/DoyleJ11/mst-sync/internal/overlay"
	"github.com/DoyleJ11/mst-sync/internal/publisher"
	"github.com/DoyleJ11/mst-sync/internal/replay"
	"github.com/DoyleJ11/mst-sync/internal/session"
	"github.com/DoyleJ11/mst-sync/internal/sink"
	"github.com/DoyleJ11/mst-sync/internal/spectate"
)

var version = "v0.1.0-dev"

func main() {
	app := &cli.App{
		Name:    "mstsync",
		Usage:   "Keep a Melee stream scoreboard in sync with the bracket, replays and the operator",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file to load before reading the environment"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the sync service",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "scoreboard JSON path (overrides OUTPUT_PATH)"},
					&cli.StringFlag{Name: "replays", Usage: "replay folder to watch (overrides REPLAY_DIR)"},
					&cli.StringFlag{Name: "listen", Usage: "HTTP listen address (overrides LISTEN_ADDR)"},
					&cli.StringFlag{Name: "spectate", Usage: "spectate peer websocket URL (overrides SPECTATE_URL)"},
					&cli.StringFlag{Name: "broadcast", Usage: "broadcast id to follow on the spectate peer"},
					&cli.StringFlag{Name: "bracket-file", Usage: "bracket export with entrants and pending sets"},
				},
				Action: serve,
			},
			{
				Name:      "inspect",
				Usage:     "Print the player slots of a replay as YAML",
				ArgsUsage: "<file.slp>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return fmt.Errorf("expected one replay path")
					}
					return inspect(cCtx.Args().First(), os.Stdout)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func inspect(path string, w io.Writer) error {
	players, err := replay.NewReader(nil).Read(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(players[:]); err != nil {
		return fmt.Errorf("encoding to YAML failed: %w", err)
	}
	return enc.Close()
}

func serve(cCtx *cli.Context) error {
	cfg, err := config.Load(cCtx.String("env-file"))
	if err != nil {
		return err
	}
	overrideString(&cfg.OutputPath, cCtx.String("output"))
	overrideString(&cfg.ReplayDir, cCtx.String("replays"))
	overrideString(&cfg.ListenAddr, cCtx.String("listen"))
	overrideString(&cfg.SpectateURL, cCtx.String("spectate"))

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := overlay.NewHub(ctx)
	notifiers := []session.Notifier{hub}

	if cfg.RedisURL != "" {
		rp, err := publisher.NewRedisPublisher(cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			return fmt.Errorf("redis publisher: %w", err)
		}
		defer rp.Close()
		notifiers = append(notifiers, rp)
		logger.Info("publishing to redis", zap.String("channel", cfg.RedisChannel))
	}
	if cfg.DatabaseURL != "" {
		arch, err := archive.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer arch.Close()
		notifiers = append(notifiers, arch)
		logger.Info("archiving snapshots to postgres")
	}

	source := bracket.NewMemorySource()
	if path := cCtx.String("bracket-file"); path != "" {
		if source, err = bracket.LoadMemorySource(path); err != nil {
			return fmt.Errorf("bracket file: %w", err)
		}
	}

	// The poller needs the session and the session needs the poller's
	// trigger, so the hook is bound after both exist.
	var poller atomic.Pointer[bracket.Poller]
	s := session.New(ctx, session.Config{
		Settings: session.Settings{
			Enabled:        cfg.OutputPath != "",
			OutputPath:     cfg.OutputPath,
			SponsorDisplay: cfg.SponsorDisplay,
			SkinDisplay:    cfg.SkinDisplay,
		},
		Sink:      sink.NewFileSink(),
		Notifiers: notifiers,
		Logger:    logger.Named("session"),
		OnRequestBracketData: func() {
			if p := poller.Load(); p != nil {
				p.Trigger()
			}
		},
	})
	poll := bracket.NewPoller(source, s, cfg.PollInterval, logger.Named("bracket"))
	poller.Store(poll)

	reader := replay.NewReader(logger.Named("replay"))
	in := intake.New(s, reader, source, source, logger.Named("intake"))

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: httpapi.SetupRoutes(s, hub, logger.Named("http"))}
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error { return poll.Run(gctx) })

	if cfg.ReplayDir != "" {
		games := make(chan replay.NewGame, 8)
		w := replay.NewWatcher(cfg.ReplayDir, time.Second, reader, logger.Named("watcher"))
		g.Go(func() error { return w.Run(gctx, games) })
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case game := <-games:
					if err := in.HandleGame(gctx, game.Players); err != nil {
						logger.Warn("new game not applied", zap.String("path", game.Path), zap.Error(err))
					}
				}
			}
		})
	}

	if cfg.SpectateURL != "" {
		c := spectate.NewClient(cfg.SpectateURL, cCtx.String("broadcast"), s, in, logger.Named("spectate"))
		g.Go(func() error {
			if err := c.Run(gctx); err != nil {
				// the spectate link is optional; losing it should not stop the service
				logger.Error("spectate client stopped", zap.Error(err))
			}
			return nil
		})
	}

	err = g.Wait()
	stop()
	<-s.Done()
	logger.Info("shut down")
	return err
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
