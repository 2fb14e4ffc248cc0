package domain

import (
	"context"
	"time"
)

// SessionUser is the point-in-time user snapshot embedded in a session.
// It is authoritative for the session's lifetime and does not reflect
// later profile changes.
type SessionUser struct {
	ID       string `json:"_id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	GoogleID string `json:"googleId,omitempty"`
}

// Session is a server-side authentication record keyed by an opaque
// token handed to the browser as a cookie. Sessions expire after a fixed
// TTL with no sliding renewal.
type Session struct {
	Token     string      `json:"token"`
	User      SessionUser `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// SessionStore defines durable session storage. Get returns (nil, nil)
// for unknown or expired tokens.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
