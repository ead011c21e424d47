// README: Token cache; hands out the shared airline bearer token and logs in lazily on miss or expiry.
package token

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"airchat/internal/metrics"
)

type Option func(*Cache)

// WithTTL overrides how long a freshly obtained token is reused.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// Cache supplies a valid bearer token for protected airline calls.
// It is safe for concurrent use; simultaneous misses share one login.
type Cache struct {
	auth   Authenticator
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
	group  singleflight.Group
}

// NewCache builds a cache over store; a nil store means an in-memory one.
func NewCache(auth Authenticator, store Store, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{
		auth:   auth,
		store:  store,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the cached token while it is valid, otherwise logs in.
// Failures wrap ErrAuthFailure and leave the stored token untouched.
func (c *Cache) Token(ctx context.Context) (string, error) {
	if tok, ok := c.cached(ctx); ok {
		return tok.Value, nil
	}

	v, err, _ := c.group.Do("login", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) cached(ctx context.Context) (Token, bool) {
	tok, ok, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("token store read failed; logging in again", zap.Error(err))
		return Token{}, false
	}
	if !ok || !tok.ValidAt(c.now()) {
		return Token{}, false
	}
	return tok, true
}

func (c *Cache) refresh(ctx context.Context) (string, error) {
	now := c.now()

	value, err := c.auth.Login(ctx)
	if err == nil && value == "" {
		err = fmt.Errorf("login returned an empty token")
	}
	if err != nil {
		metrics.TokenLogins.WithLabelValues("failed").Inc()
		c.logger.Warn("airline login failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}
	metrics.TokenLogins.WithLabelValues("ok").Inc()

	tok := Token{Value: value, ExpiresAt: now.Add(c.ttl)}
	if err := c.store.Save(ctx, tok, c.ttl); err != nil {
		c.logger.Warn("token store write failed; token used uncached", zap.Error(err))
	}
	c.logger.Debug("airline token refreshed", zap.Time("expires_at", tok.ExpiresAt))
	return value, nil
}
