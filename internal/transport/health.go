package transport

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"netchess/internal/obslog"
	"netchess/internal/session"
)

// HealthServer answers liveness probes and serves matchmaking counters.
// It runs on its own listener so operational traffic never shares a port
// with player connections.
type HealthServer struct {
	srv  *fasthttp.Server
	sess *session.Server
}

func NewHealthServer(sess *session.Server) *HealthServer {
	h := &HealthServer{sess: sess}
	h.srv = &fasthttp.Server{
		Handler: h.route,
		Name:    "netchess-health",
	}
	return h
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (h *HealthServer) ListenAndServe(addr string) error {
	obslog.L().Info("health_listening", zap.String("addr", addr))
	return h.srv.ListenAndServe(addr)
}

func (h *HealthServer) Shutdown() error { return h.srv.Shutdown() }

func (h *HealthServer) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case "/statusz":
		stats := h.sess.Stats()
		body, err := json.Marshal(&stats)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}
