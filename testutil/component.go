package testutil

import (
	"context"

	"github.com/kbukum/rediskit/component"
)

// TestComponent is a component.Component with hooks for test isolation.
type TestComponent interface {
	component.Component

	// Reset returns the component to its empty state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state for a later Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore replaces the current state with a Snapshot result.
	Restore(ctx context.Context, snapshot interface{}) error
}
