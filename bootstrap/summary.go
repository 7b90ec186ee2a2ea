package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/recordkit/component"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/record"
)

// ComponentInfo is one component line in the startup summary.
type ComponentInfo struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// RouteInfo represents a registered HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// ServiceInfo represents a system service and the records it publishes
// and consumes.
type ServiceInfo struct {
	Name      string
	Publishes []string
	Consumes  []string
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	services        []ServiceInfo
	out             io.Writer
}

// NewSummary creates a new bootstrap summary tracker writing to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		out:         os.Stdout,
	}
}

// SetOutput redirects the summary.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackService records a system service with its record dependencies.
func (s *Summary) TrackService(name string, publishes, consumes []string) {
	s.services = append(s.services, ServiceInfo{
		Name:      name,
		Publishes: publishes,
		Consumes:  consumes,
	})
}

// DisplaySummary prints the bootstrap summary including live health from
// the component registry and the current record table. Either may be nil.
func (s *Summary) DisplaySummary(registry *component.Registry, records *record.Registry, log *logger.Logger) {
	w := s.out
	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	var infos []ComponentInfo
	var routes []RouteInfo
	if registry != nil {
		infos = collectComponents(registry)
		routes = collectRoutes(registry)
	}

	if len(infos) > 0 {
		fmt.Fprintf(w, "📦 Components\n")
		for i, c := range infos {
			details := c.Details
			if c.Port > 0 && !strings.Contains(details, fmt.Sprintf(":%d", c.Port)) {
				details = fmt.Sprintf("%s (:%d)", details, c.Port)
			}
			fmt.Fprintf(w, "   %s %s [%s] %s\n", treePrefix(i, len(infos)), c.Name, c.Type, details)
		}
	} else {
		fmt.Fprintf(w, "   └── No components registered\n")
	}

	if len(s.services) > 0 {
		fmt.Fprintf(w, "\n⚙️  Services\n")
		for i, svc := range s.services {
			fmt.Fprintf(w, "   %s %s", treePrefix(i, len(s.services)), svc.Name)
			if len(svc.Publishes) > 0 {
				fmt.Fprintf(w, " publishes=%s", strings.Join(svc.Publishes, ","))
			}
			if len(svc.Consumes) > 0 {
				fmt.Fprintf(w, " consumes=%s", strings.Join(svc.Consumes, ","))
			}
			fmt.Fprintf(w, "\n")
		}
	}

	if records != nil {
		snapshot := records.Snapshot()
		fmt.Fprintf(w, "\n🗂  Records (%d)\n", len(snapshot))
		for i, r := range snapshot {
			fmt.Fprintf(w, "   %s %s %s holders=%d\n", treePrefix(i, len(snapshot)), recordIcon(r), r.Name, r.Holders)
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	if registry != nil {
		results := registry.HealthAll(context.Background())
		if len(results) > 0 {
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			healthy := 0
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = " (" + h.Message + ")"
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(results)),
					healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
				if h.Status == component.StatusHealthy {
					healthy++
				}
			}
			if healthy != len(results) && log != nil {
				log.Warn("Some components have issues", map[string]interface{}{
					"healthy": healthy,
					"total":   len(results),
				})
			}
		}
	}

	fmt.Fprintf(w, "\n")
}

func collectComponents(registry *component.Registry) []ComponentInfo {
	var infos []ComponentInfo
	for _, c := range registry.All() {
		info := ComponentInfo{Name: c.Name(), Type: "component"}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name != "" {
				info.Name = desc.Name
			}
			info.Type = desc.Type
			info.Details = desc.Details
			info.Port = desc.Port
		}
		infos = append(infos, info)
	}
	return infos
}

func collectRoutes(registry *component.Registry) []RouteInfo {
	var routes []RouteInfo
	for _, c := range registry.All() {
		rp, ok := c.(component.RouteProvider)
		if !ok {
			continue
		}
		for _, r := range rp.Routes() {
			routes = append(routes, RouteInfo(r))
		}
	}
	return routes
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func recordIcon(info record.Info) string {
	if info.Ready {
		return "✅"
	}
	return "⏳"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
