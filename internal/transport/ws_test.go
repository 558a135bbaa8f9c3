package transport

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"netchess/internal/session"
	"netchess/pkg/wire"
)

func dialTest(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn) *wire.Event {
	t.Helper()
	var ev wire.Event
	if err := wsjson.Read(ctx, conn, &ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return &ev
}

func TestGatewayPairsAndRelays(t *testing.T) {
	srv := session.NewServer(session.NewMemoryResumeStore())
	hub := session.NewHub(srv, 16)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go hub.Run(ctx)

	ts := httptest.NewServer(NewGateway(hub))
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	c1 := dialTest(t, ctx, wsURL)
	defer c1.Close(websocket.StatusNormalClosure, "")
	c2 := dialTest(t, ctx, wsURL)
	defer c2.Close(websocket.StatusNormalClosure, "")

	e1 := readEvent(t, ctx, c1)
	e2 := readEvent(t, ctx, c2)
	if e1.Type != wire.EvtMatchFound || e2.Type != wire.EvtMatchFound {
		t.Fatalf("match events = %s / %s", e1.Type, e2.Type)
	}
	if e1.Color == e2.Color {
		t.Fatalf("both clients got color %s", e1.Color)
	}

	white, black := c1, c2
	if e1.Color != "white" {
		white, black = c2, c1
	}

	cmd := wire.Command{
		Type: wire.CmdMove,
		Move: &wire.Move{
			From: wire.Square{Rank: 1, File: 4},
			To:   wire.Square{Rank: 3, File: 4},
		},
	}
	if err := wsjson.Write(ctx, white, &cmd); err != nil {
		t.Fatalf("send move: %v", err)
	}
	ev := readEvent(t, ctx, black)
	if ev.Type != wire.EvtMove {
		t.Fatalf("black got %s, want move", ev.Type)
	}
	if ev.Move == nil || *ev.Move != *cmd.Move {
		t.Fatalf("relayed move = %+v", ev.Move)
	}
}

func TestGatewayDisconnectForfeits(t *testing.T) {
	srv := session.NewServer(session.NewMemoryResumeStore())
	hub := session.NewHub(srv, 16)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go hub.Run(ctx)

	ts := httptest.NewServer(NewGateway(hub))
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	c1 := dialTest(t, ctx, wsURL)
	c2 := dialTest(t, ctx, wsURL)
	defer c2.Close(websocket.StatusNormalClosure, "")

	readEvent(t, ctx, c1)
	readEvent(t, ctx, c2)

	_ = c1.Close(websocket.StatusNormalClosure, "leaving")

	ev := readEvent(t, ctx, c2)
	if ev.Type != wire.EvtGameEnd || ev.Reason != wire.ReasonResignation {
		t.Fatalf("survivor got %+v, want forfeit", ev)
	}
}
