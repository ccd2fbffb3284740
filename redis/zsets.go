package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

// ZAdd adds member with score, or updates its score. It returns 1 when the
// member is new.
func (c *Client) ZAdd(ctx context.Context, key string, score float64, member string) (int64, error) {
	return run(c, "zadd", key, func() (int64, error) {
		return c.rdb.ZAdd(ctx, key, goredis.Z{Score: score, Member: member}).Result()
	})
}

// ZRem removes members and returns how many were present.
func (c *Client) ZRem(ctx context.Context, key string, members ...any) (int64, error) {
	return run(c, "zrem", key, func() (int64, error) {
		return c.rdb.ZRem(ctx, key, members...).Result()
	})
}

// ZRange returns members by ascending score, ranks start..stop inclusive.
func (c *Client) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return run(c, "zrange", key, func() ([]string, error) {
		return c.rdb.ZRange(ctx, key, start, stop).Result()
	})
}

// ZRangeWithScores is ZRange returning scores alongside members.
func (c *Client) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]goredis.Z, error) {
	return run(c, "zrange", key, func() ([]goredis.Z, error) {
		return c.rdb.ZRangeWithScores(ctx, key, start, stop).Result()
	})
}

// ZScore returns the score of member. A missing member yields (0, false, nil).
func (c *Client) ZScore(ctx context.Context, key, member string) (float64, bool, error) {
	return lookup(c, "zscore", key, func() (float64, error) {
		return c.rdb.ZScore(ctx, key, member).Result()
	})
}

// ZCard returns the sorted set size, 0 for a missing key.
func (c *Client) ZCard(ctx context.Context, key string) (int64, error) {
	return run(c, "zcard", key, func() (int64, error) {
		return c.rdb.ZCard(ctx, key).Result()
	})
}
