package component

import (
	"context"

	"github.com/kbukum/recordkit/observability"
)

// Health is the health report a component returns.
type Health = observability.Health

// HealthStatus is the state carried in Health.
type HealthStatus = observability.HealthStatus

const (
	StatusHealthy   = observability.HealthStatusUp
	StatusUnhealthy = observability.HealthStatusDown
	StatusDegraded  = observability.HealthStatusDegraded
)

// Component represents a lifecycle-managed part of a recordkit process:
// the record registry itself, the debug server, and the system services
// that publish or consume records.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information for the bootstrap display.
type Description struct {
	// Name is the human-readable display name. If empty, the component's Name() is used.
	Name string
	// Type categorizes the component: "registry", "server", "service".
	Type string
	// Details is a one-liner shown in the startup summary,
	// e.g. "entries=3 max=128" or ":8081 h2c".
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by Components to self-report in the
// startup summary.
type Describable interface {
	Describe() Description
}

// Route holds a single HTTP route for the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is optionally implemented by server components to
// auto-report registered HTTP routes for the startup summary.
type RouteProvider interface {
	Routes() []Route
}
