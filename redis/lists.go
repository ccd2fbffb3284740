package redis

import "context"

// LPush prepends values and returns the new list length.
func (c *Client) LPush(ctx context.Context, key string, values ...any) (int64, error) {
	return run(c, "lpush", key, func() (int64, error) {
		return c.rdb.LPush(ctx, key, values...).Result()
	})
}

// RPush appends values and returns the new list length.
func (c *Client) RPush(ctx context.Context, key string, values ...any) (int64, error) {
	return run(c, "rpush", key, func() (int64, error) {
		return c.rdb.RPush(ctx, key, values...).Result()
	})
}

// LPop removes and returns the head. An empty or missing list yields ("", false, nil).
func (c *Client) LPop(ctx context.Context, key string) (string, bool, error) {
	return lookup(c, "lpop", key, func() (string, error) {
		return c.rdb.LPop(ctx, key).Result()
	})
}

// RPop removes and returns the tail. An empty or missing list yields ("", false, nil).
func (c *Client) RPop(ctx context.Context, key string) (string, bool, error) {
	return lookup(c, "rpop", key, func() (string, error) {
		return c.rdb.RPop(ctx, key).Result()
	})
}

// LLen returns the list length, 0 for a missing key.
func (c *Client) LLen(ctx context.Context, key string) (int64, error) {
	return run(c, "llen", key, func() (int64, error) {
		return c.rdb.LLen(ctx, key).Result()
	})
}

// LRange returns elements start..stop inclusive; negative indexes count
// from the tail.
func (c *Client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return run(c, "lrange", key, func() ([]string, error) {
		return c.rdb.LRange(ctx, key, start, stop).Result()
	})
}
