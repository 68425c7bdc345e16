package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// RedisStore keeps records in Redis with native key expiry, so Cleanup is a
// no-op.
type RedisStore struct {
	client *backend.Client
	prefix string
	owned  bool
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix. The default is "exprtree:session:".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore connects to the Redis server at addr.
func NewRedisStore(ctx context.Context, addr string, opts ...RedisOption) (*RedisStore, error) {
	client := backend.NewClient(&backend.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	s := NewRedisStoreFromClient(client, opts...)
	s.owned = true
	return s, nil
}

// NewRedisStoreFromClient wraps an existing client. Close leaves it open.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "exprtree:session:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if rec.IsExpired() {
		return nil, nil
	}
	return &rec, nil
}

func (s *RedisStore) Set(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(rec.ID), data, rec.TTL()).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Cleanup(ctx context.Context) error { return nil }

func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
