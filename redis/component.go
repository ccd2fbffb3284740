package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/rediskit/component"
	"github.com/kbukum/rediskit/logger"
)

// Component manages a Client's lifecycle in a component.Registry.
type Component struct {
	cfg   Config
	log   *logger.Logger
	hooks []goredis.Hook

	mu     sync.RWMutex
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a Redis component. Defaults are applied to cfg. A nil
// log resolves through the logger registry under cfg.Name.
func NewComponent(cfg Config, log *logger.Logger, hooks ...goredis.Hook) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log, hooks: hooks}
}

// Client returns the connected Client, or nil before Start.
func (c *Component) Client() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// Name returns the configured client name.
func (c *Component) Name() string { return c.cfg.Name }

// Start connects and verifies the server.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}
	client, err := NewConnectorFromConfig(c.cfg).Logger(c.log).Hooks(c.hooks...).Connect(ctx)
	if err != nil {
		return fmt.Errorf("redis start: %w", err)
	}
	c.client = client
	return nil
}

// Stop closes the client.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Health pings the server.
func (c *Component) Health(ctx context.Context) component.Health {
	client := c.Client()
	if client == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "redis not started",
		}
	}

	start := time.Now()
	if err := client.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Latency: time.Since(start).String(),
	}
}

// Describe reports address, database and pool size.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: c.cfg.String(),
		Port:    c.cfg.Port,
	}
}
