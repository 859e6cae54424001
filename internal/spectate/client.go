package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/mst-sync/internal/engine"
	"github.com/DoyleJ11/mst-sync/pkg/types"
)

type GameEnds interface {
	ApplyGameEnd(ctx context.Context, u engine.GameEnd) error
}

type Files interface {
	HandlePath(ctx context.Context, path string) error
}

// Client follows one broadcast on a spectate peer and feeds its game events
// into the session. It does not reconnect; Run returns when the link drops.
type Client struct {
	URL string
	// BroadcastID picks the broadcast to follow. Empty follows the first one listed.
	BroadcastID string
	Games       GameEnds
	Files       Files
	Logger      *zap.Logger
}

func NewClient(url, broadcastID string, games GameEnds, files Files, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{URL: url, BroadcastID: broadcastID, Games: games, Files: files, Logger: logger}
}

func (c *Client) Run(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.URL, nil)
	if err != nil {
		return fmt.Errorf("dial spectate peer: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, conn, types.ListBroadcastsRequest{Op: types.OpListBroadcastsRequest}); err != nil {
		return err
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return fmt.Errorf("read spectate peer: %w", err)
		}

		msg, err := types.Decode(data)
		if err != nil {
			var unknown *types.UnknownOpError
			if errors.As(err, &unknown) {
				c.Logger.Debug("ignoring spectate frame", zap.String("op", string(unknown.Op)))
				continue
			}
			c.Logger.Warn("bad spectate frame", zap.Error(err))
			continue
		}
		if err := c.handle(ctx, conn, msg); err != nil {
			return err
		}
	}
}

func (c *Client) handle(ctx context.Context, conn *websocket.Conn, msg any) error {
	switch m := msg.(type) {
	case *types.ListBroadcastsResponse:
		id := c.pick(m.Broadcasts)
		if id == "" {
			c.Logger.Info("no broadcast to spectate", zap.Int("listed", len(m.Broadcasts)))
			return nil
		}
		return send(ctx, conn, types.SpectateBroadcastRequest{Op: types.OpSpectateBroadcastRequest, BroadcastID: id})

	case *types.SpectateBroadcastResponse:
		c.Logger.Info("spectating", zap.String("broadcast", m.BroadcastID), zap.String("path", m.Path))

	case *types.SpectatingBroadcastsEvent:
		c.Logger.Debug("spectating broadcasts", zap.Strings("broadcasts", m.BroadcastIDs))

	case *types.DolphinClosedEvent:
		c.Logger.Info("dolphin closed", zap.String("broadcast", m.BroadcastID))

	case *types.GameEndEvent:
		return c.Games.ApplyGameEnd(ctx, engine.GameEnd{P1: m.P1Won, P2: m.P2Won})

	case *types.NewFileEvent:
		if err := c.Files.HandlePath(ctx, m.Path); err != nil {
			c.Logger.Warn("new file not applied", zap.String("path", m.Path), zap.Error(err))
		}
	}
	return nil
}

func (c *Client) pick(broadcasts []types.Broadcast) string {
	for _, b := range broadcasts {
		if c.BroadcastID == "" || b.ID == c.BroadcastID {
			return b.ID
		}
	}
	return ""
}

func send(ctx context.Context, conn *websocket.Conn, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}
