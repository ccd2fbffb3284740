package redis

import "context"

// SAdd adds members and returns how many were new.
func (c *Client) SAdd(ctx context.Context, key string, members ...any) (int64, error) {
	return run(c, "sadd", key, func() (int64, error) {
		return c.rdb.SAdd(ctx, key, members...).Result()
	})
}

// SRem removes members and returns how many were present.
func (c *Client) SRem(ctx context.Context, key string, members ...any) (int64, error) {
	return run(c, "srem", key, func() (int64, error) {
		return c.rdb.SRem(ctx, key, members...).Result()
	})
}

// SIsMember reports whether member belongs to the set.
func (c *Client) SIsMember(ctx context.Context, key string, member any) (bool, error) {
	return run(c, "sismember", key, func() (bool, error) {
		return c.rdb.SIsMember(ctx, key, member).Result()
	})
}

// SMembers returns all members in no particular order.
func (c *Client) SMembers(ctx context.Context, key string) ([]string, error) {
	return run(c, "smembers", key, func() ([]string, error) {
		return c.rdb.SMembers(ctx, key).Result()
	})
}

// SCard returns the set size, 0 for a missing key.
func (c *Client) SCard(ctx context.Context, key string) (int64, error) {
	return run(c, "scard", key, func() (int64, error) {
		return c.rdb.SCard(ctx, key).Result()
	})
}
