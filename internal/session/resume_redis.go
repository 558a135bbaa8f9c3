package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisResumeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisResumeStore connects to Redis and returns a TTL-backed
// ResumeStore. Tokens expire on their own if a game outlives the TTL
// without ending cleanly.
func NewRedisResumeStore(redisURL string, ttl time.Duration) (ResumeStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url required for resume store")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisResumeStore{rdb: rdb, ttl: ttl}, nil
}

func resumeKey(token string) string { return "resume:" + strings.TrimSpace(token) }

func (s *redisResumeStore) Put(ctx context.Context, token string, b Binding) error {
	raw, err := json.Marshal(&b)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, resumeKey(token), raw, s.ttl).Err()
}

func (s *redisResumeStore) Get(ctx context.Context, token string) (*Binding, error) {
	raw, err := s.rdb.Get(ctx, resumeKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var b Binding
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *redisResumeStore) Del(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, resumeKey(token)).Err()
}

func (s *redisResumeStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
