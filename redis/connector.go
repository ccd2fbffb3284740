package redis

import (
	"context"
	stderrors "errors"
	"net/url"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/rediskit/logger"
	"github.com/kbukum/rediskit/resilience"
)

// Connector accumulates connection settings and produces a connected Client.
// Setters use value receivers and return an updated copy, so a base
// Connector can be shared and specialised safely:
//
//	base := redis.NewConnector().Host("cache.internal")
//	sessions, err := base.DB(1).Connect(ctx)
//	jobs, err := base.DB(2).Connect(ctx)
type Connector struct {
	cfg   Config
	log   *logger.Logger
	hooks []goredis.Hook
}

// NewConnector returns a Connector seeded with defaults (localhost:6379, db 0).
func NewConnector() Connector {
	var cfg Config
	cfg.ApplyDefaults()
	return Connector{cfg: cfg}
}

// NewConnectorFromConfig returns a Connector for cfg with defaults applied
// to zero fields.
func NewConnectorFromConfig(cfg Config) Connector {
	cfg.ApplyDefaults()
	return Connector{cfg: cfg}
}

func (c Connector) Host(host string) Connector         { c.cfg.Host = host; return c }
func (c Connector) Port(port int) Connector            { c.cfg.Port = port; return c }
func (c Connector) Username(username string) Connector { c.cfg.Username = username; return c }
func (c Connector) Password(password string) Connector { c.cfg.Password = password; return c }
func (c Connector) DB(db int) Connector                { c.cfg.DB = db; return c }
func (c Connector) PoolSize(n int) Connector           { c.cfg.PoolSize = n; return c }
func (c Connector) MaxRetries(n int) Connector         { c.cfg.MaxRetries = n; return c }
func (c Connector) ConnectRetries(n int) Connector     { c.cfg.ConnectRetries = n; return c }

// TLS enables rediss; skipVerify disables certificate verification.
func (c Connector) TLS(enabled, skipVerify bool) Connector {
	c.cfg.TLS = enabled
	c.cfg.TLSSkipVerify = enabled && skipVerify
	return c
}

// TLSFiles sets a CA bundle and an optional client certificate for rediss.
// Any of the paths may be empty.
func (c Connector) TLSFiles(caFile, certFile, keyFile string) Connector {
	c.cfg.TLSCAFile = caFile
	c.cfg.TLSCertFile = certFile
	c.cfg.TLSKeyFile = keyFile
	return c
}

// TLSServerName overrides the name verified against the server certificate.
func (c Connector) TLSServerName(name string) Connector { c.cfg.TLSServerName = name; return c }

func (c Connector) DialTimeout(d time.Duration) Connector  { c.cfg.DialTimeout = d.String(); return c }
func (c Connector) ReadTimeout(d time.Duration) Connector  { c.cfg.ReadTimeout = d.String(); return c }
func (c Connector) WriteTimeout(d time.Duration) Connector { c.cfg.WriteTimeout = d.String(); return c }

// Logger sets the logger used by Connect and the resulting Client. Without
// one, the logger registered under the client name is used (logger.Get).
func (c Connector) Logger(log *logger.Logger) Connector { c.log = log; return c }

// Hooks appends go-redis hooks installed on the client before the first PING.
func (c Connector) Hooks(hooks ...goredis.Hook) Connector {
	merged := make([]goredis.Hook, 0, len(c.hooks)+len(hooks))
	c.hooks = append(append(merged, c.hooks...), hooks...)
	return c
}

// Config returns the accumulated configuration.
func (c Connector) Config() Config {
	return c.cfg
}

// URL returns the connection URL, redis://[:password@]host:port/db (rediss
// with TLS). The URL contains the password; log Redacted output instead.
func (c Connector) URL() (string, error) {
	if err := c.cfg.Validate(); err != nil {
		return "", connectionError(c.cfg, err)
	}
	return connectionURL(c.cfg).String(), nil
}

// Options builds the go-redis options for the accumulated configuration.
func (c Connector) Options() (*goredis.Options, error) {
	raw, err := c.URL()
	if err != nil {
		return nil, err
	}
	opts, err := goredis.ParseURL(raw)
	if err != nil {
		return nil, connectionError(c.cfg, err)
	}

	cfg := c.cfg
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = max(cfg.MinIdleConns, 0)
	opts.MaxRetries = cfg.MaxRetries
	opts.MinRetryBackoff = durationOr(cfg.MinRetryBackoff, 8*time.Millisecond)
	opts.MaxRetryBackoff = durationOr(cfg.MaxRetryBackoff, 512*time.Millisecond)
	opts.DialTimeout = durationOr(cfg.DialTimeout, 5*time.Second)
	opts.ReadTimeout = durationOr(cfg.ReadTimeout, 3*time.Second)
	opts.WriteTimeout = durationOr(cfg.WriteTimeout, 3*time.Second)
	opts.PoolTimeout = durationOr(cfg.PoolTimeout, 0)
	opts.ConnMaxIdleTime = durationOr(cfg.ConnMaxIdleTime, 0)
	opts.ConnMaxLifetime = durationOr(cfg.ConnMaxLifetime, 0)
	if cfg.TLS {
		tlsCfg, err := cfg.tlsConfig().Build()
		if err != nil {
			return nil, connectionError(cfg, err)
		}
		opts.TLSConfig = tlsCfg
	}
	return opts, nil
}

// Connect validates the configuration, creates the pooled client and
// verifies it with PING. Every failure, including rejected credentials and
// an unreachable server, is returned as a CONNECTION_FAILED error.
//
// Each PING attempt, including go-redis's own command retries, is cut off
// after DialTimeout+ReadTimeout, so an unresponsive server costs at most
// ConnectRetries times that plus the backoff between attempts.
func (c Connector) Connect(ctx context.Context) (*Client, error) {
	log := c.logger()

	opts, err := c.Options()
	if err != nil {
		log.Error("Invalid Redis configuration", logger.ErrorFields("connect", err))
		return nil, err
	}

	rdb := goredis.NewClient(opts)
	for _, h := range c.hooks {
		rdb.AddHook(h)
	}

	target := connectionURL(c.cfg).Redacted()
	attemptTimeout := opts.DialTimeout + max(opts.ReadTimeout, 0)
	_, err = resilience.Retry(ctx, resilience.RetryConfig{
		MaxAttempts:    c.cfg.ConnectRetries,
		InitialBackoff: durationOr(c.cfg.ConnectRetryInterval, 100*time.Millisecond),
		MaxBackoff:     opts.DialTimeout,
		BackoffFactor:  2.0,
		Jitter:         0.1,
		RetryIf: func(err error) bool {
			if ctx.Err() == nil && stderrors.Is(err, context.DeadlineExceeded) {
				return true
			}
			return retryableConnectError(err)
		},
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			log.Warn("Redis ping failed, retrying", logger.Fields(
				logger.FieldAddr, target,
				logger.FieldAttempt, attempt,
				logger.FieldError, err.Error(),
				"backoff", backoff.String(),
			))
		},
	}, func() (string, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		defer cancel()
		return rdb.Ping(attemptCtx).Result()
	})
	if err != nil {
		_ = rdb.Close()
		log.Error("Redis connection failed", logger.Fields(logger.FieldAddr, target, logger.FieldError, err.Error()))
		return nil, connectionError(c.cfg, err)
	}

	log.Info("Redis client connected", logger.Fields(
		logger.FieldAddr, target,
		logger.FieldDB, c.cfg.DB,
		"pool_size", c.cfg.PoolSize,
	))
	return newClient(rdb, c.cfg, log, true), nil
}

func (c Connector) logger() *logger.Logger {
	if c.log == nil {
		return logger.Get(c.cfg.Name)
	}
	return c.log.WithComponent(c.cfg.Name)
}

func connectionURL(cfg Config) *url.URL {
	u := &url.URL{
		Scheme: "redis",
		Host:   cfg.Addr(),
		Path:   "/" + strconv.Itoa(cfg.DB),
	}
	if cfg.TLS {
		u.Scheme = "rediss"
	}
	switch {
	case cfg.Password != "":
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	case cfg.Username != "":
		u.User = url.User(cfg.Username)
	}
	return u
}
