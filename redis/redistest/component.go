package redistest

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/rediskit/component"
	"github.com/kbukum/rediskit/logger"
	"github.com/kbukum/rediskit/redis"
	"github.com/kbukum/rediskit/testutil"
)

// Component is an in-memory Redis server with a connected *redis.Client.
type Component struct {
	mini    *miniredis.Miniredis
	client  *redis.Client
	started bool
	mu      sync.RWMutex
}

var _ component.Component = (*Component)(nil)
var _ testutil.TestComponent = (*Component)(nil)

// NewComponent creates a new in-memory Redis test component.
func NewComponent() *Component {
	return &Component{}
}

// Client returns the connected client, or nil if not started.
func (c *Component) Client() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// Miniredis exposes the server for FastForward, SetError and direct
// inspection.
func (c *Component) Miniredis() *miniredis.Miniredis {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mini
}

// Config returns a redis.Config pointing at the running server.
func (c *Component) Config() redis.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg := redis.Config{Name: "redis-test"}
	if c.mini != nil {
		host, port, _ := net.SplitHostPort(c.mini.Addr())
		cfg.Host = host
		cfg.Port, _ = strconv.Atoi(port)
	}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Component) Name() string { return "redis-test" }

// Start launches the in-memory server and connects a client to it.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("component already started")
	}

	mini, err := miniredis.Run()
	if err != nil {
		return fmt.Errorf("failed to start miniredis: %w", err)
	}

	host, port, _ := net.SplitHostPort(mini.Addr())
	p, _ := strconv.Atoi(port)
	client, err := redis.NewConnector().
		Host(host).
		Port(p).
		ConnectRetries(1).
		Logger(logger.Nop()).
		Connect(ctx)
	if err != nil {
		mini.Close()
		return fmt.Errorf("failed to connect to miniredis: %w", err)
	}

	c.mini = mini
	c.client = client
	c.started = true
	return nil
}

// Stop closes the client and shuts down the server.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}

	_ = c.client.Close()
	c.mini.Close()
	c.client = nil
	c.mini = nil
	c.started = false
	return nil
}

func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "not started",
		}
	}
	start := time.Now()
	if err := c.client.Ping(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Latency: time.Since(start).String(),
	}
}

// Reset flushes every database.
func (c *Component) Reset(_ context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return fmt.Errorf("component not started")
	}
	c.mini.FlushAll()
	return nil
}

// Snapshot captures string keys of the default database and their TTLs.
// Other key types are not captured.
func (c *Component) Snapshot(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return nil, fmt.Errorf("component not started")
	}

	snap := make(Snapshot)
	for _, key := range c.mini.Keys() {
		if c.mini.Type(key) != "string" {
			continue
		}
		val, err := c.mini.Get(key)
		if err != nil {
			continue
		}
		snap[key] = Entry{Value: val, TTL: c.mini.TTL(key)}
	}
	return snap, nil
}

// Restore flushes the server and writes back a Snapshot.
func (c *Component) Restore(_ context.Context, snap interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return fmt.Errorf("component not started")
	}

	entries, ok := snap.(Snapshot)
	if !ok {
		return fmt.Errorf("invalid snapshot type: expected redistest.Snapshot, got %T", snap)
	}

	c.mini.FlushAll()
	for key, e := range entries {
		if err := c.mini.Set(key, e.Value); err != nil {
			return fmt.Errorf("failed to restore key %q: %w", key, err)
		}
		if e.TTL > 0 {
			c.mini.SetTTL(key, e.TTL)
		}
	}
	return nil
}

// Snapshot is the state captured by Component.Snapshot.
type Snapshot map[string]Entry

// Entry is one captured string key.
type Entry struct {
	Value string
	TTL   time.Duration
}
