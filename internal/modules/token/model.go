// README: Token value object, store contract and errors for the airline credential cache.
package token

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL keeps a margin under the airline's 60 minute token lifetime.
const DefaultTTL = 50 * time.Minute

// ErrAuthFailure is returned when no valid token could be obtained.
var ErrAuthFailure = errors.New("authentication failed")

// Token is a bearer credential and the instant it stops being usable.
type Token struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidAt reports whether the token may be used at now.
func (t Token) ValidAt(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// Authenticator performs the login call against the airline API.
type Authenticator interface {
	Login(ctx context.Context) (string, error)
}

// Store holds at most one token. Load returns ok=false when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Token, bool, error)
	Save(ctx context.Context, tok Token, ttl time.Duration) error
}
