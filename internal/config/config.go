// Package config loads server settings: built-in defaults, then an
// optional YAML file, then environment variable overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	// ListenAddr serves the WebSocket gateway.
	ListenAddr string `yaml:"listen_addr"`
	// HealthAddr serves /healthz and /statusz on a separate listener.
	HealthAddr string `yaml:"health_addr"`

	// RedisURL enables the Redis resume store. Empty means tokens are
	// kept in process memory and die with the server.
	RedisURL     string `yaml:"redis_url"`
	ResumeTTLSec int    `yaml:"resume_ttl_sec"`

	// EventBuffer sizes the hub's event channel.
	EventBuffer int `yaml:"event_buffer"`
}

func defaults() *AppConfig {
	return &AppConfig{
		ListenAddr:   ":8080",
		HealthAddr:   ":9090",
		ResumeTTLSec: 3600,
		EventBuffer:  256,
	}
}

// Load builds the effective configuration. The YAML file path comes from
// NETCHESS_CONFIG; a missing variable skips the file layer entirely.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("NETCHESS_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("HEALTH_ADDR")); v != "" {
		cfg.HealthAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("RESUME_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ResumeTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("EVENT_BUFFER")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EventBuffer = n
		}
	}

	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("listen_addr is required")
	}
	if cfg.HealthAddr == "" {
		return nil, fmt.Errorf("health_addr is required")
	}
	return cfg, nil
}
