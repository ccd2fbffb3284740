package redis

import "context"

// HSet sets field in the hash at key. It reports whether the field is new.
func (c *Client) HSet(ctx context.Context, key, field string, value any) (bool, error) {
	n, err := run(c, "hset", key, func() (int64, error) {
		return c.rdb.HSet(ctx, key, field, value).Result()
	})
	return n == 1, err
}

// HGet returns a hash field. A missing key or field yields ("", false, nil).
func (c *Client) HGet(ctx context.Context, key, field string) (string, bool, error) {
	return lookup(c, "hget", key, func() (string, error) {
		return c.rdb.HGet(ctx, key, field).Result()
	})
}

// HGetAll returns every field of the hash; empty for a missing key.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return run(c, "hgetall", key, func() (map[string]string, error) {
		return c.rdb.HGetAll(ctx, key).Result()
	})
}

// HDel removes fields and returns how many were present.
func (c *Client) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	return run(c, "hdel", key, func() (int64, error) {
		return c.rdb.HDel(ctx, key, fields...).Result()
	})
}

// HExists reports whether field is present in the hash.
func (c *Client) HExists(ctx context.Context, key, field string) (bool, error) {
	return run(c, "hexists", key, func() (bool, error) {
		return c.rdb.HExists(ctx, key, field).Result()
	})
}
