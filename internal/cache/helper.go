package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PostTTL is the cache lifetime for public post reads.
const PostTTL = 2 * time.Minute

// ProfileTTL is the cache lifetime for public profile reads.
const ProfileTTL = 5 * time.Minute

// PostKey returns the cache key for a post by ID.
func PostKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// ProfileKey returns the cache key for a profile by ID string.
func ProfileKey(id string) string {
	return fmt.Sprintf("profile:%s", id)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Invalidate removes the given keys (best-effort).
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	_ = client.Del(ctx, keys...).Err()
}

// Aside tries Redis first, on miss it calls fetch (which should populate
// dest), then stores the result with ttl. Cache write failures are ignored;
// the cache is never authoritative.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}
