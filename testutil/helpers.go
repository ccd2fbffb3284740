package testutil

import (
	"context"
	"testing"
)

// Start starts c and stops it when the test ends. It fails the test if c
// does not start.
func Start(t testing.TB, c TestComponent) {
	t.Helper()
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start %s: %v", c.Name(), err)
	}
	t.Cleanup(func() {
		if err := c.Stop(ctx); err != nil {
			t.Errorf("stop %s: %v", c.Name(), err)
		}
	})
}

// Isolate resets c now and again when the test ends.
func Isolate(t testing.TB, c TestComponent) {
	t.Helper()
	ctx := context.Background()
	if err := c.Reset(ctx); err != nil {
		t.Fatalf("reset %s: %v", c.Name(), err)
	}
	t.Cleanup(func() { _ = c.Reset(ctx) })
}

// WithSnapshot runs fn and then restores c to its state before fn.
func WithSnapshot(t testing.TB, c TestComponent, fn func()) {
	t.Helper()
	ctx := context.Background()
	snap, err := c.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot %s: %v", c.Name(), err)
	}
	defer func() {
		if err := c.Restore(ctx, snap); err != nil {
			t.Errorf("restore %s: %v", c.Name(), err)
		}
	}()
	fn()
}
