//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kbukum/rediskit/logger"
)

// Run with: go test -tags integration ./redis/...
func TestIntegration_RealRedis(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	client, err := NewConnector().
		Host(host).
		Port(port.Int()).
		DB(1).
		Logger(logger.Nop()).
		Connect(ctx)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if err := client.SetEx(ctx, "it:key", "value", time.Minute); err != nil {
		t.Fatalf("SetEx failed: %v", err)
	}
	if v, ok, err := client.Get(ctx, "it:key"); err != nil || !ok || v != "value" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if ttl, err := client.TTL(ctx, "it:key"); err != nil || ttl <= 0 {
		t.Errorf("TTL = %v, %v", ttl, err)
	}

	store := NewTypedStore[profile](client, "it")
	if err := store.Save(ctx, "p", &profile{ID: 1, Name: "ada"}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p, err := store.Load(ctx, "p"); err != nil || p == nil || p.Name != "ada" {
		t.Errorf("Load = %+v, %v", p, err)
	}

	lock := client.NewLock("it:lock", 2*time.Second)
	if err := lock.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := lock.Extend(ctx); err != nil {
		t.Errorf("Extend failed: %v", err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Errorf("Release failed: %v", err)
	}

	if _, err := client.Del(ctx, "it:key", "it:p"); err != nil {
		t.Errorf("Del failed: %v", err)
	}
}
