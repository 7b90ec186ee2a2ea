package record

import (
	"context"
	"fmt"

	"github.com/kbukum/recordkit/component"
	"github.com/kbukum/recordkit/logger"
)

// ComponentName is the name the registry adapter registers under.
const ComponentName = "records"

// Component adapts a Registry to the component lifecycle so it shows up in
// health checks and the startup summary.
type Component struct {
	r *Registry
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps r.
func NewComponent(r *Registry) *Component {
	return &Component{r: r}
}

// Registry returns the wrapped registry.
func (c *Component) Registry() *Registry { return c.r }

func (c *Component) Name() string { return ComponentName }

func (c *Component) Start(ctx context.Context) error {
	cfg := c.r.Config()
	c.r.log.Info("record registry ready", logger.Fields(
		"max_records", cfg.MaxRecords,
		"fatal_mode", string(cfg.FatalMode),
		"open_timeout", cfg.OpenTimeout.String(),
	))
	return nil
}

// Stop reports records that are still held. It never destroys anything:
// payload lifetimes belong to their publishers.
func (c *Component) Stop(ctx context.Context) error {
	for _, info := range c.r.Snapshot() {
		if info.Holders > 0 {
			c.r.log.Warn("record still held at shutdown", logger.Fields(
				logger.FieldRecord, info.Name,
				logger.FieldHolders, info.Holders,
			))
		}
	}
	return nil
}

// Health is degraded while any record has holders waiting on a payload that
// was never published.
func (c *Component) Health(ctx context.Context) component.Health {
	infos := c.r.Snapshot()
	var pending []string
	ready := 0
	for _, info := range infos {
		if info.Ready {
			ready++
		} else if info.Holders > 0 {
			pending = append(pending, info.Name)
		}
	}

	h := component.Health{
		Name:   ComponentName,
		Status: component.StatusHealthy,
		Details: map[string]any{
			"entries": len(infos),
			"ready":   ready,
			"leases":  c.r.leases.Size(),
		},
	}
	if len(pending) > 0 {
		h.Status = component.StatusDegraded
		h.Message = fmt.Sprintf("%d record(s) awaited but not published", len(pending))
		h.Details["pending"] = pending
	}
	return h
}

func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("entries=%d", c.r.Len())
	if limit := c.r.Config().MaxRecords; limit > 0 {
		details += fmt.Sprintf(" max=%d", limit)
	}
	return component.Description{
		Name:    "Record Registry",
		Type:    "registry",
		Details: details,
	}
}
