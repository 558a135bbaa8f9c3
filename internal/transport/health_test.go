package transport

import (
	"encoding/json"
	"net"
	"testing"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"netchess/internal/session"
)

func healthClient(t *testing.T, h *HealthServer) *fasthttp.Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = h.srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })
	return &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
}

func TestHealthz(t *testing.T) {
	h := NewHealthServer(session.NewServer(session.NewMemoryResumeStore()))
	client := healthClient(t, h)

	code, body, err := client.Get(nil, "http://health/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if code != fasthttp.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz = %d %q", code, body)
	}
}

func TestStatusz(t *testing.T) {
	h := NewHealthServer(session.NewServer(session.NewMemoryResumeStore()))
	client := healthClient(t, h)

	code, body, err := client.Get(nil, "http://health/statusz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if code != fasthttp.StatusOK {
		t.Fatalf("statusz code = %d", code)
	}
	var stats session.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("statusz body %q: %v", body, err)
	}
	if stats.Queued != 0 || stats.ActiveGames != 0 || stats.TotalGames != 0 {
		t.Fatalf("fresh server stats = %+v", stats)
	}
}

func TestHealthNotFound(t *testing.T) {
	h := NewHealthServer(session.NewServer(session.NewMemoryResumeStore()))
	client := healthClient(t, h)

	code, _, err := client.Get(nil, "http://health/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if code != fasthttp.StatusNotFound {
		t.Fatalf("code = %d, want 404", code)
	}
}
