// internal/pkg/session/types.go
package session

import (
	"context"

	"storefront/internal/domain/auth"
)

// Session is the authenticated state: the bearer token plus the user it
// was issued for.
type Session struct {
	Token string
	User  *auth.User
}

// Authenticated reports whether both halves are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Reader exposes the stored session without mutating it.
type Reader interface {
	TokenSource
	User(ctx context.Context) (*auth.User, bool)
}

// Store is the durable session. Reads never fail: a backend problem reads as
// an absent session. Token and user are written together but not atomically.
type Store interface {
	Reader
	SetSession(ctx context.Context, token string, user *auth.User) error
	ClearSession(ctx context.Context) error
}

// Snapshot reads token and user once.
func Snapshot(ctx context.Context, r Reader) Session {
	var s Session
	s.Token, _ = r.Token(ctx)
	s.User, _ = r.User(ctx)
	return s
}
