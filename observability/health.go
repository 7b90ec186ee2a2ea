package observability

import "context"

// HealthStatus represents the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes the health of an individual component.
type Health struct {
	Name    string         `json:"name"`
	Status  HealthStatus   `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ServiceHealth is the aggregated health served by the debug surface.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker is implemented by anything that can report its health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// NewServiceHealth aggregates component results; the worst status wins.
func NewServiceHealth(service, version string, components ...Health) *ServiceHealth {
	sh := &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
	for _, c := range components {
		sh.AddComponent(c)
	}
	return sh
}

// AddComponent adds a component health result and degrades overall status if needed.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case HealthStatusDown:
		sh.Status = HealthStatusDown
	case HealthStatusDegraded:
		if sh.Status != HealthStatusDown {
			sh.Status = HealthStatusDegraded
		}
	}
}

// Healthy reports whether the aggregated status is up.
func (sh *ServiceHealth) Healthy() bool {
	return sh.Status == HealthStatusUp
}
