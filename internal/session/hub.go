package session

import (
	"context"

	"go.uber.org/zap"

	"netchess/internal/obslog"
	"netchess/pkg/wire"
)

type eventKind uint8

const (
	evConnect eventKind = iota
	evCommand
	evDisconnect
)

type event struct {
	kind eventKind
	conn Conn
	cmd  wire.Command
}

// Hub serializes all session mutations onto one goroutine. Transports
// enqueue from their own goroutines; Run is the only code that touches
// the Server's queue and game registry.
type Hub struct {
	srv    *Server
	events chan event
}

// NewHub wraps a Server with a buffered event channel.
func NewHub(srv *Server, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 256
	}
	return &Hub{srv: srv, events: make(chan event, buffer)}
}

// Run drains the event channel until ctx is canceled. It must be running
// before any transport accepts connections.
func (h *Hub) Run(ctx context.Context) {
	obslog.L().Info("hub_started")
	for {
		select {
		case <-ctx.Done():
			obslog.L().Info("hub_stopped", zap.NamedError("cause", ctx.Err()))
			return
		case ev := <-h.events:
			switch ev.kind {
			case evConnect:
				h.srv.HandleConnect(ctx, ev.conn)
			case evCommand:
				h.srv.HandleCommand(ctx, ev.conn, ev.cmd)
			case evDisconnect:
				h.srv.HandleDisconnect(ctx, ev.conn)
			}
		}
	}
}

// Connect enqueues a new connection for matchmaking.
func (h *Hub) Connect(c Conn) { h.events <- event{kind: evConnect, conn: c} }

// Command enqueues a decoded client command.
func (h *Hub) Command(c Conn, cmd wire.Command) {
	h.events <- event{kind: evCommand, conn: c, cmd: cmd}
}

// Disconnect enqueues a connection teardown notice.
func (h *Hub) Disconnect(c Conn) { h.events <- event{kind: evDisconnect, conn: c} }
