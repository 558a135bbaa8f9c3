package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "netchess/internal/config"
	"netchess/internal/obslog"
	"netchess/internal/session"
	"netchess/internal/transport"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	resume, err := buildResumeStore(cfg)
	if err != nil {
		log.Fatalf("resume store init error: %v", err)
	}

	srv := session.NewServer(resume)
	hub := session.NewHub(srv, cfg.EventBuffer)

	rootCtx, cancel := context.WithCancel(context.Background())
	go hub.Run(rootCtx)

	gateway := transport.NewGateway(hub)
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           gateway,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		obslog.L().Info("gateway_listening", zap.String("addr", cfg.ListenAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obslog.L().Fatal("gateway_listen_error", zap.Error(err))
		}
	}()

	health := transport.NewHealthServer(srv)
	go func() {
		if err := health.ListenAndServe(cfg.HealthAddr); err != nil {
			obslog.L().Error("health_listen_error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	obslog.L().Info("shutting_down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = httpSrv.Shutdown(shutCtx)
	shutCancel()
	_ = health.Shutdown()
	cancel()
	_ = resume.Close()
}

func buildResumeStore(cfg *appcfg.AppConfig) (session.ResumeStore, error) {
	if cfg.RedisURL == "" {
		obslog.L().Info("resume_store", zap.String("kind", "memory"))
		return session.NewMemoryResumeStore(), nil
	}
	obslog.L().Info("resume_store", zap.String("kind", "redis"))
	return session.NewRedisResumeStore(cfg.RedisURL, time.Duration(cfg.ResumeTTLSec)*time.Second)
}
