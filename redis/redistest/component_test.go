package redistest

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/rediskit/component"
	"github.com/kbukum/rediskit/errors"
	"github.com/kbukum/rediskit/testutil"
)

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent()
	ctx := context.Background()

	if comp.Client() != nil {
		t.Error("Client() should be nil before Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health before Start = %q, want unhealthy", h.Status)
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := comp.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}

	client := comp.Client()
	if client == nil {
		t.Fatal("Client() should not be nil after Start")
	}
	if comp.Config().Addr() != comp.Miniredis().Addr() {
		t.Errorf("Config().Addr() = %q, want %q", comp.Config().Addr(), comp.Miniredis().Addr())
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health Status = %q, want %q", h.Status, component.StatusHealthy)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("second Stop() failed: %v", err)
	}
	if err := client.Set(ctx, "k", "v"); !errors.IsConnection(err) {
		t.Errorf("Set after Stop: got %v, want connection error", err)
	}
}

func TestComponent_SetGetReset(t *testing.T) {
	comp := NewComponent()
	testutil.Start(t, comp)
	ctx := context.Background()

	if err := comp.Client().Set(ctx, "key1", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, ok, err := comp.Client().Get(ctx, "key1")
	if err != nil || !ok || val != "value1" {
		t.Fatalf("Get = %q, %v, %v; want value1", val, ok, err)
	}

	if err := comp.Reset(ctx); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if _, ok, _ := comp.Client().Get(ctx, "key1"); ok {
		t.Error("key1 should be gone after Reset")
	}
}

func TestComponent_SnapshotRestore(t *testing.T) {
	comp := NewComponent()
	testutil.Start(t, comp)
	ctx := context.Background()
	client := comp.Client()

	_ = client.Set(ctx, "a", "1")
	_ = client.SetEx(ctx, "b", "2", time.Minute)

	testutil.WithSnapshot(t, comp, func() {
		_ = client.Set(ctx, "c", "3")
		_, _ = client.Del(ctx, "a")
	})

	if v, _, _ := client.Get(ctx, "a"); v != "1" {
		t.Errorf("key 'a' = %q, want %q", v, "1")
	}
	if v, _, _ := client.Get(ctx, "b"); v != "2" {
		t.Errorf("key 'b' = %q, want %q", v, "2")
	}
	if ttl, _ := client.TTL(ctx, "b"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("key 'b' TTL = %v, want restored expiry", ttl)
	}
	if _, ok, _ := client.Get(ctx, "c"); ok {
		t.Error("key 'c' should not exist after Restore")
	}
}

func TestComponent_RestoreRejectsForeignSnapshot(t *testing.T) {
	comp := NewComponent()
	testutil.Start(t, comp)

	if err := comp.Restore(context.Background(), map[string]string{"a": "1"}); err == nil {
		t.Error("expected error for wrong snapshot type")
	}
}

func TestComponent_NotStarted(t *testing.T) {
	comp := NewComponent()
	ctx := context.Background()

	if err := comp.Reset(ctx); err == nil {
		t.Error("Reset() should fail before Start")
	}
	if _, err := comp.Snapshot(ctx); err == nil {
		t.Error("Snapshot() should fail before Start")
	}
	if err := comp.Restore(ctx, Snapshot{}); err == nil {
		t.Error("Restore() should fail before Start")
	}
}
