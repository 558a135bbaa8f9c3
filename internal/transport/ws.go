// Package transport exposes the session hub over the network: a
// WebSocket gateway for players and a small HTTP listener for health
// checks. All game semantics live behind the hub; this package only
// decodes frames and forwards them.
package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"netchess/internal/obslog"
	"netchess/internal/session"
	"netchess/pkg/wire"
)

const (
	writeTimeout = 5 * time.Second
	maxFrameSize = 4 * 1024
)

// Gateway upgrades HTTP requests to WebSocket player connections and
// pumps decoded commands into the hub.
type Gateway struct {
	hub *session.Hub
}

func NewGateway(hub *session.Hub) *Gateway {
	return &Gateway{hub: hub}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		obslog.L().Warn("ws_accept_error", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxFrameSize)

	c := newWSConn(conn)
	obslog.L().Info("ws_connected", zap.String("conn_id", c.ID()))
	g.hub.Connect(c)

	// Read loop owns the connection lifetime: any read error, including
	// our own Disconnect closing the socket, funnels into one hub
	// disconnect event.
	for {
		var cmd wire.Command
		if err := wsjson.Read(r.Context(), conn, &cmd); err != nil {
			break
		}
		g.hub.Command(c, cmd)
	}
	c.Disconnect()
	g.hub.Disconnect(c)
	obslog.L().Info("ws_closed", zap.String("conn_id", c.ID()))
}

// wsConn adapts one WebSocket to the session.Conn interface. Send is
// only ever called from the hub goroutine, so writes never overlap.
type wsConn struct {
	id   string
	conn *websocket.Conn
	once sync.Once
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{id: uuid.NewString(), conn: conn}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(ev *wire.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c.conn, ev)
}

func (c *wsConn) Disconnect() {
	c.once.Do(func() {
		_ = c.conn.Close(websocket.StatusNormalClosure, "session closed")
	})
}
