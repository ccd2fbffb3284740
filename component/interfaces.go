package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// Component is a lifecycle-managed infrastructure handle.
type Component interface {
	// Name returns the unique registration name.
	Name() string

	// Start opens the underlying resource.
	Start(ctx context.Context) error

	// Stop releases the underlying resource.
	Stop(ctx context.Context) error

	// Health reports the current state of the resource.
	Health(ctx context.Context) Health
}

// Description is a one-line summary of a component's configuration,
// e.g. Type "redis", Details "localhost:6379 db=0 pool=10".
type Description struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// Describable is optionally implemented by components that can summarize
// their configuration.
type Describable interface {
	Describe() Description
}
