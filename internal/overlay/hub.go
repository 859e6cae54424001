package overlay

import (
	"context"

	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

type HubMsg interface{ isHubMsg() }

type Subscribe struct {
	ClientID string
	Outbox   chan scoreboard.Scoreboard // where this client wants to receive boards
}

type Unsubscribe struct {
	ClientID string
}

type Publish struct {
	Board scoreboard.Scoreboard
}

type CountClients struct {
	Reply chan int
}

type ShutdownHub struct{}

func (Subscribe) isHubMsg()    {}
func (Unsubscribe) isHubMsg()  {}
func (Publish) isHubMsg()      {}
func (CountClients) isHubMsg() {}
func (ShutdownHub) isHubMsg()  {}

// Hub fans the latest board out to connected overlay clients.
type Hub struct {
	inbox   chan HubMsg
	clients map[string]chan scoreboard.Scoreboard
	last    *scoreboard.Scoreboard
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		clients: make(map[string]chan scoreboard.Scoreboard),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has shut down.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

// Join registers a client outbox. It fails if ctx ends or the hub is gone.
func (h *Hub) Join(ctx context.Context, clientID string, outbox chan scoreboard.Scoreboard) error {
	select {
	case h.inbox <- Subscribe{ClientID: clientID, Outbox: outbox}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return h.ctx.Err()
	}
}

// Leave removes a client. It returns at once if the hub has shut down.
func (h *Hub) Leave(clientID string) {
	select {
	case h.inbox <- Unsubscribe{ClientID: clientID}:
	case <-h.ctx.Done():
	}
}

// Notify queues a board for every client. It lets the hub act as a
// session notifier.
func (h *Hub) Notify(ctx context.Context, board scoreboard.Scoreboard) error {
	select {
	case h.inbox <- Publish{Board: board}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return h.ctx.Err()
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Subscribe:
				h.clients[msg.ClientID] = msg.Outbox
				// New clients get the current board right away
				if h.last != nil {
					h.send(msg.ClientID, msg.Outbox, *h.last)
				}

			case Unsubscribe:
				delete(h.clients, msg.ClientID)

			case Publish:
				board := msg.Board
				h.last = &board
				for id, ch := range h.clients {
					h.send(id, ch, board)
				}

			case CountClients:
				msg.Reply <- len(h.clients)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) send(id string, ch chan scoreboard.Scoreboard, board scoreboard.Scoreboard) {
	select {
	case ch <- board:
	default:
		// Client is slow/full - drop them.
		close(ch)
		delete(h.clients, id)
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.clients {
		close(ch)
		delete(h.clients, id)
	}
	h.cancel()
}
