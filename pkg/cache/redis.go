package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis. It is the server backend: several
// API instances share one cache.
type RedisCache struct {
	client *backend.Client
	prefix string
	owned  bool
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithPrefix sets the key prefix. The default is "exprtree:cache:".
func WithPrefix(prefix string) RedisOption {
	return func(c *RedisCache) { c.prefix = prefix }
}

// NewRedisCache connects to the Redis server at addr and checks that it
// answers.
func NewRedisCache(ctx context.Context, addr string, opts ...RedisOption) (*RedisCache, error) {
	client := backend.NewClient(&backend.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w: %w", addr, ErrUnavailable, err)
	}
	c := NewRedisCacheFromClient(client, opts...)
	c.owned = true
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client. Close does not close a
// client it did not create.
func NewRedisCacheFromClient(client *backend.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, prefix: "exprtree:cache:"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value. Network failures are retried with backoff.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data []byte
		hit  bool
	)
	err := RetryWithBackoff(ctx, func() error {
		val, err := c.client.Get(ctx, c.prefix+key).Bytes()
		switch {
		case errors.Is(err, backend.Nil):
			data, hit = nil, false
			return nil
		case err != nil:
			return classify(err)
		}
		data, hit = val, true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, hit, nil
}

// Set stores a value with the given ttl; zero means no expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close closes the client if the cache created it.
func (c *RedisCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Close()
}

// classify marks network errors as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
