package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BumpChannel carries version bumps so other processes can react to them.
const BumpChannel = "catalog.bump"

// Versioned is a Redis JSON cache whose keys embed a namespace version.
// Bumping the version invalidates every key at once; stale entries expire
// through their TTL.
type Versioned struct {
	client     *redis.Client
	namespace  string
	versionKey string
	ttl        time.Duration
	group      singleflight.Group
}

// NewVersioned instantiates the cache helper. A nil client disables caching
// and every fetch goes straight to the loader.
func NewVersioned(client *redis.Client, namespace string, ttl time.Duration) *Versioned {
	return &Versioned{
		client:     client,
		namespace:  namespace,
		versionKey: namespace + ":version",
		ttl:        ttl,
	}
}

// Version returns the current cache version, initialising when missing.
func (c *Versioned) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, c.versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SetNX keeps a concurrent Bump from being overwritten.
		if err := c.client.SetNX(ctx, c.versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, c.versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, c.versionKey, ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// BuildKey composes the cache key with the current version.
func (c *Versioned) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(append([]string{c.prefix()}, parts...), ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader. Concurrent
// misses on the same key share a single loader call.
func (c *Versioned) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return roundTrip(value, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}

	raw, err, _ := c.group.Do(key, func() (any, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			return nil, err
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), dest)
}

// Bump invalidates the cache by incrementing the version and publishing an event.
func (c *Versioned) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, c.versionKey).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, BumpChannel, c.namespace+":"+strconv.FormatInt(ver, 10)).Err()
}

func (c *Versioned) prefix() string {
	if c == nil || c.namespace == "" {
		return "cache"
	}
	return c.namespace
}

func roundTrip(value, dest any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
