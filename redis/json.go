package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kbukum/rediskit/errors"
)

// SetJSON encodes value as JSON and stores it under key without expiry.
func (c *Client) SetJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return encodeError(key, err)
	}
	return c.Set(ctx, key, data)
}

// SetJSONEx encodes value as JSON and stores it under key with a positive ttl.
func (c *Client) SetJSONEx(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.InvalidInput("ttl", "must be positive")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return encodeError(key, err)
	}
	return c.SetEx(ctx, key, data, ttl)
}

// GetJSON decodes the JSON stored at key into dest. It reports false, and
// leaves dest untouched, when the key is missing.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, decodeError(key, err)
	}
	return true, nil
}

// GetAs returns the value at key decoded as T, or nil when the key is missing.
func GetAs[T any](ctx context.Context, c *Client, key string) (*T, error) {
	var v T
	ok, err := c.GetJSON(ctx, key, &v)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

// MGetAs fetches keys in one round trip and decodes each value as T. Missing
// keys yield nil entries; the first undecodable value aborts the call.
func MGetAs[T any](ctx context.Context, c *Client, keys ...string) ([]*T, error) {
	raw, err := c.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}

	out := make([]*T, len(raw))
	for i, s := range raw {
		if s == nil {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(*s), &v); err != nil {
			return nil, decodeError(keys[i], err)
		}
		out[i] = &v
	}
	return out, nil
}
