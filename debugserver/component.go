package debugserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/recordkit/component"
)

const componentName = "debug-server"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component wraps Server to implement component.Component.
type Component struct {
	server  *Server
	started bool
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Server returns the wrapped server.
func (c *Component) Server() *Server { return c.server }

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start starts the underlying HTTP server.
func (c *Component) Start(ctx context.Context) error {
	if err := c.server.Start(ctx); err != nil {
		return err
	}
	c.started = true
	return nil
}

// Stop gracefully shuts down the underlying HTTP server.
func (c *Component) Stop(ctx context.Context) error {
	if !c.started {
		return nil
	}
	c.started = false
	return c.server.Stop(ctx)
}

// Health reports whether the server is listening.
func (c *Component) Health(ctx context.Context) component.Health {
	if !c.started {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "debug server not started",
		}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusHealthy,
		Details: map[string]any{"addr": c.server.Addr()},
	}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	cfg := c.server.config
	return component.Description{
		Name:    "Debug Server",
		Type:    "server",
		Details: fmt.Sprintf("%s:%d (read-only)", cfg.Host, cfg.Port),
		Port:    cfg.Port,
	}
}

// Routes returns the registered routes sorted by path, then method.
func (c *Component) Routes() []component.Route {
	ginRoutes := c.server.engine.Routes()
	sort.Slice(ginRoutes, func(i, j int) bool {
		if ginRoutes[i].Path != ginRoutes[j].Path {
			return ginRoutes[i].Path < ginRoutes[j].Path
		}
		return ginRoutes[i].Method < ginRoutes[j].Method
	})

	routes := make([]component.Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, component.Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: formatHandlerName(r.Handler),
		})
	}
	return routes
}

// formatHandlerName trims gin's fully qualified handler name, e.g.
// "github.com/kbukum/recordkit/debugserver.(*Server).listRecords-fm"
// becomes "Server.listRecords".
func formatHandlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")
	if _, rest, ok := strings.Cut(name, "."); ok && rest != "" {
		name = rest
	}
	return name
}
