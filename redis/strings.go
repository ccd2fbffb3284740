package redis

import (
	"context"
	"time"

	"github.com/kbukum/rediskit/errors"
)

// TTL sentinels, normalised from the server's -1 / -2 replies.
const (
	NoExpiry   time.Duration = -1 * time.Second
	KeyMissing time.Duration = -2 * time.Second
)

// Set stores value under key without expiry.
func (c *Client) Set(ctx context.Context, key string, value any) error {
	_, err := run(c, "set", key, func() (string, error) {
		return c.rdb.Set(ctx, key, value, 0).Result()
	})
	return err
}

// SetEx stores value under key with a positive ttl.
func (c *Client) SetEx(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.InvalidInput("ttl", "must be positive")
	}
	_, err := run(c, "setex", key, func() (string, error) {
		return c.rdb.Set(ctx, key, value, ttl).Result()
	})
	return err
}

// SetNX stores value only if key does not exist. A ttl of 0 means no expiry.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return run(c, "setnx", key, func() (bool, error) {
		return c.rdb.SetNX(ctx, key, value, ttl).Result()
	})
}

// Get returns the string at key. A missing key yields ("", false, nil).
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	return lookup(c, "get", key, func() (string, error) {
		return c.rdb.Get(ctx, key).Result()
	})
}

// MGet returns one entry per key, nil where the key is missing.
func (c *Client) MGet(ctx context.Context, keys ...string) ([]*string, error) {
	if len(keys) == 0 {
		return []*string{}, nil
	}
	raw, err := run(c, "mget", "", func() ([]interface{}, error) {
		return c.rdb.MGet(ctx, keys...).Result()
	})
	if err != nil {
		return nil, err
	}

	out := make([]*string, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			out[i] = &s
		}
	}
	return out, nil
}

// Incr adds delta to the integer at key and returns the new value.
func (c *Client) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	return run(c, "incrby", key, func() (int64, error) {
		return c.rdb.IncrBy(ctx, key, delta).Result()
	})
}

// Del removes keys and returns how many existed.
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return run(c, "del", firstKey(keys), func() (int64, error) {
		return c.rdb.Del(ctx, keys...).Result()
	})
}

// Exists returns how many of keys exist.
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return run(c, "exists", firstKey(keys), func() (int64, error) {
		return c.rdb.Exists(ctx, keys...).Result()
	})
}

// Expire sets a ttl on key; false means the key does not exist.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return run(c, "expire", key, func() (bool, error) {
		return c.rdb.Expire(ctx, key, ttl).Result()
	})
}

// TTL returns the remaining time to live of key, NoExpiry when the key has
// no expiry and KeyMissing when it does not exist.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := run(c, "ttl", key, func() (time.Duration, error) {
		return c.rdb.TTL(ctx, key).Result()
	})
	if err != nil {
		return 0, err
	}
	switch d {
	case -1, NoExpiry:
		return NoExpiry, nil
	case -2, KeyMissing:
		return KeyMissing, nil
	}
	return d, nil
}

func firstKey(keys []string) string {
	if len(keys) == 1 {
		return keys[0]
	}
	return ""
}
