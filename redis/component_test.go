package redis

import (
	"context"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/rediskit/component"
	"github.com/kbukum/rediskit/errors"
	"github.com/kbukum/rediskit/logger"
)

func miniConfig(t *testing.T, mini *miniredis.Miniredis) Config {
	t.Helper()
	host, port, _ := net.SplitHostPort(mini.Addr())
	p, _ := strconv.Atoi(port)
	return Config{Name: "cache", Host: host, Port: p, ConnectRetries: 1}
}

func TestComponent_Lifecycle(t *testing.T) {
	mini := miniredis.RunT(t)
	comp := NewComponent(miniConfig(t, mini), logger.Nop())
	ctx := context.Background()

	if comp.Name() != "cache" {
		t.Errorf("Name() = %q", comp.Name())
	}
	if comp.Client() != nil {
		t.Error("Client() should be nil before Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health before Start = %q", h.Status)
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	client := comp.Client()
	if err := comp.Start(ctx); err != nil || comp.Client() != client {
		t.Errorf("second Start should be a no-op: %v", err)
	}

	h := comp.Health(ctx)
	if h.Status != component.StatusHealthy || h.Name != "cache" || h.Latency == "" {
		t.Errorf("unexpected health: %+v", h)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if comp.Client() != nil {
		t.Error("Client() should be nil after Stop")
	}
	if err := comp.Stop(ctx); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
}

func TestComponent_HealthUnhealthy(t *testing.T) {
	mini := miniredis.RunT(t)
	comp := NewComponent(miniConfig(t, mini), logger.Nop())
	ctx := context.Background()

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer comp.Stop(ctx)

	mini.SetError("ERR down for maintenance")
	h := comp.Health(ctx)
	if h.Status != component.StatusUnhealthy || !strings.Contains(h.Message, "ping failed") {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestComponent_StartFailure(t *testing.T) {
	host, port := deadAddr(t)
	comp := NewComponent(Config{Host: host, Port: port, ConnectRetries: 1, MaxRetries: -1}, logger.Nop())

	err := comp.Start(context.Background())
	if !errors.IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "redis start:") {
		t.Errorf("expected wrapped error, got %q", err.Error())
	}
}

func TestComponent_Describe(t *testing.T) {
	comp := NewComponent(Config{Host: "cache.internal", DB: 2}, nil)
	d := comp.Describe()
	if d.Type != "redis" || d.Port != DefaultPort {
		t.Errorf("unexpected description: %+v", d)
	}
	if d.Details != "cache.internal:6379 db=2 pool=10" {
		t.Errorf("Details = %q", d.Details)
	}
}

func TestComponent_InRegistry(t *testing.T) {
	mini := miniredis.RunT(t)
	comp := NewComponent(miniConfig(t, mini), logger.Nop())
	reg := component.NewRegistry(logger.Nop())
	ctx := context.Background()

	if err := reg.Register(comp); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.StartAll(ctx); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if !reg.Healthy(ctx) {
		t.Errorf("registry should be healthy: %+v", reg.HealthAll(ctx))
	}
	if err := comp.Client().Set(ctx, "k", "v"); err != nil {
		t.Errorf("Set through registry-managed client failed: %v", err)
	}
	if err := reg.StopAll(ctx); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
}
