package session

import "context"

// Binding records which game and color a resume token belongs to.
type Binding struct {
	GameID string `json:"game_id"`
	Color  string `json:"color"`
}

// ResumeStore keeps resume-token bindings for reconnection. Bindings are
// short-lived: they are written at pairing time and deleted with the game.
type ResumeStore interface {
	Put(ctx context.Context, token string, b Binding) error
	// Get returns nil with no error when the token is unknown or expired.
	Get(ctx context.Context, token string) (*Binding, error)
	Del(ctx context.Context, token string) error
	Close() error
}
