package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClientOption adjusts the Redis client options before dialing.
type ClientOption func(*redis.Options)

// WithPoolSize caps the connection pool.
func WithPoolSize(n int) ClientOption {
	return func(o *redis.Options) {
		if n > 0 {
			o.PoolSize = n
		}
	}
}

// WithTimeouts sets the dial and read timeouts.
func WithTimeouts(dial, read time.Duration) ClientOption {
	return func(o *redis.Options) {
		o.DialTimeout = dial
		o.ReadTimeout = read
	}
}

// New dials Redis at addr and pings it within pingTimeout. The returned
// client is closed again when the ping fails.
func New(ctx context.Context, addr string, opts ...ClientOption) (*redis.Client, error) {
	options := &redis.Options{
		Addr:        addr,
		DialTimeout: 3 * time.Second,
		ReadTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(options)
	}
	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping %s: %w", addr, err)
	}
	return client, nil
}

const pingTimeout = 5 * time.Second
