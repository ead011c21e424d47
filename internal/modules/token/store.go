// README: Token stores; in-process slot and a Redis key shared between replicas.
package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	tok Token
	set bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (Token, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tok, s.set, nil
}

func (s *MemoryStore) Save(_ context.Context, tok Token, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = tok
	s.set = true
	return nil
}

// RedisStore keeps the token under a single key whose TTL matches the
// token lifetime, so every replica reuses one login.
type RedisStore struct {
	rdb redis.Cmdable
	key string
}

func NewRedisStore(rdb redis.Cmdable, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (Token, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Token{}, false, nil
	}
	if err != nil {
		return Token{}, false, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	var tok Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return Token{}, false, fmt.Errorf("decode cached token: %w", err)
	}
	return tok, true, nil
}

func (s *RedisStore) Save(ctx context.Context, tok Token, ttl time.Duration) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
