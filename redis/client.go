package redis

import (
	"context"
	stderrors "errors"
	"net"
	"strconv"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/rediskit/logger"
)

// Client is a typed facade over a shared go-redis client. It is safe for
// concurrent use; the go-redis pool does the synchronisation.
type Client struct {
	rdb   *goredis.Client
	log   *logger.Logger
	cfg   Config
	owned bool

	mu     sync.RWMutex
	closed bool
}

func newClient(rdb *goredis.Client, cfg Config, log *logger.Logger, owned bool) *Client {
	return &Client{rdb: rdb, log: log, cfg: cfg, owned: owned}
}

// Wrap builds a Client around an existing go-redis client. Close on the
// returned Client marks it closed but leaves rdb open.
func Wrap(rdb *goredis.Client, log *logger.Logger) *Client {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	opts := rdb.Options()

	cfg := Config{Username: opts.Username, DB: opts.DB, PoolSize: opts.PoolSize, TLS: opts.TLSConfig != nil}
	if host, port, err := net.SplitHostPort(opts.Addr); err == nil {
		cfg.Host = host
		cfg.Port, _ = strconv.Atoi(port)
	}
	cfg.ApplyDefaults()

	return newClient(rdb, cfg, log.WithComponent(cfg.Name), false)
}

// Name returns the configured client name.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Config returns the configuration the client was built from.
func (c *Client) Config() Config {
	return c.cfg
}

// Unwrap returns the underlying go-redis client for commands the facade
// does not cover.
func (c *Client) Unwrap() *goredis.Client {
	return c.rdb
}

// Ping verifies the connection. Failures are CONNECTION_FAILED errors.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.check("ping"); err != nil {
		return err
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return connectionError(c.cfg, err)
	}
	return nil
}

// IsAvailable reports whether the client is open and the server answers PING.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return c.Ping(ctx) == nil
}

// Close releases the connection pool. Safe to call multiple times; every
// command issued afterwards fails with CONNECTION_FAILED.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if !c.owned {
		c.log.Debug("Redis client detached")
		return nil
	}
	c.log.Info("Closing Redis connection", logger.Fields(logger.FieldAddr, c.cfg.Addr()))
	return c.rdb.Close()
}

func (c *Client) check(command string) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return connectionError(c.cfg, goredis.ErrClosed).WithDetail("command", command)
	}
	return nil
}

// fail maps a go-redis error to the facade's taxonomy.
func (c *Client) fail(command, key string, err error) error {
	if stderrors.Is(err, goredis.ErrClosed) {
		return connectionError(c.cfg, err).WithDetail("command", command)
	}
	return remoteError(command, key, err)
}

// run executes one command and converts its error.
func run[T any](c *Client, command, key string, exec func() (T, error)) (T, error) {
	var zero T
	if err := c.check(command); err != nil {
		return zero, err
	}
	v, err := exec()
	if err != nil {
		return zero, c.fail(command, key, err)
	}
	return v, nil
}

// lookup is run for commands whose nil reply means "absent".
func lookup[T any](c *Client, command, key string, exec func() (T, error)) (T, bool, error) {
	var zero T
	if err := c.check(command); err != nil {
		return zero, false, err
	}
	v, err := exec()
	if stderrors.Is(err, goredis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, c.fail(command, key, err)
	}
	return v, true, nil
}
