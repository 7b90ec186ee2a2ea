package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/recordkit/component"
	"github.com/kbukum/recordkit/config"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/observability"
	"github.com/kbukum/recordkit/record"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// systemConfig also carries record and observability sections.
type systemConfig struct {
	config.ServiceConfig
	Record        record.Config
	Observability observability.Config
}

func (c *systemConfig) GetRecordConfig() *record.Config { return &c.Record }

func (c *systemConfig) GetObservabilityConfig() *observability.Config { return &c.Observability }

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop())}, opts...)
	app, err := NewApp(newTestConfig("recordd", "1.0.0"), opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	app.Summary.SetOutput(io.Discard)
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "recordd" || app.Version != "1.0.0" {
		t.Errorf("unexpected name/version %q %q", app.Name, app.Version)
	}
	if app.Records == nil {
		t.Fatal("expected the app to own a record registry")
	}
	if app.Components.Get(record.ComponentName) == nil {
		t.Error("expected the record registry to be registered as a component")
	}
	if app.Telemetry == nil {
		t.Error("expected telemetry providers, even when disabled")
	}
	if app.Cfg.Name != "recordd" {
		t.Errorf("expected typed cfg, got %q", app.Cfg.Name)
	}
	if app.Records.Config().FatalMode != record.FatalPanic {
		t.Errorf("expected record defaults, got %+v", app.Records.Config())
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{}
	if _, err := NewApp(cfg, WithLogger(logger.NewNop())); err == nil {
		t.Error("expected validation error for missing name")
	}
}

func TestNewAppRecordConfig(t *testing.T) {
	cfg := &systemConfig{
		ServiceConfig: config.ServiceConfig{Name: "recordd", Environment: "production"},
		Record:        record.Config{MaxRecords: 8, OpenTimeout: time.Second, MetricsEnabled: true},
	}
	app, err := NewApp(cfg, WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	got := app.Records.Config()
	if got.MaxRecords != 8 || got.OpenTimeout != time.Second {
		t.Errorf("expected record section to be applied, got %+v", got)
	}
}

func TestNewAppInvalidRecordConfig(t *testing.T) {
	cfg := &systemConfig{
		ServiceConfig: config.ServiceConfig{Name: "recordd"},
		Record:        record.Config{FatalMode: "explode"},
	}
	_, err := NewApp(cfg, WithLogger(logger.NewNop()))
	if err == nil || !strings.Contains(err.Error(), "record config") {
		t.Errorf("expected record config error, got %v", err)
	}
}

func TestNewAppWithRecords(t *testing.T) {
	r := record.New(record.WithLogger(logger.NewNop()))
	app := newTestApp(t, WithRecords(r))
	if app.Records != r {
		t.Error("expected the supplied registry")
	}
}

func TestRegisterComponent(t *testing.T) {
	app := newTestApp(t)
	if err := app.RegisterComponent(&mockComponent{name: "radio-driver"}); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}
	if app.Components.Get("radio-driver") == nil {
		t.Error("expected component to be registered")
	}
	if err := app.RegisterComponent(&mockComponent{name: "radio-driver"}); err == nil {
		t.Error("expected duplicate registration error")
	}
	if err := app.RegisterComponent(&mockComponent{name: record.ComponentName}); err == nil {
		t.Error("expected the record component name to be taken")
	}
}

func TestHooksRunInOrder(t *testing.T) {
	app := newTestApp(t)
	var order []string
	app.OnStart(func(context.Context) error { order = append(order, "start"); return nil })
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		order = append(order, "configure")
		return nil
	})
	app.OnReady(func(context.Context) error { order = append(order, "ready"); return nil })
	app.OnStop(func(context.Context) error { order = append(order, "stop"); return nil })

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	want := "start,configure,ready,task,stop"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRunHooksStopsAtFirstError(t *testing.T) {
	calls := 0
	err := runHooks(context.Background(), []Hook{
		func(context.Context) error { calls++; return nil },
		func(context.Context) error { calls++; return fmt.Errorf("boom") },
		func(context.Context) error { calls++; return nil },
	})
	if err == nil || !strings.Contains(err.Error(), "hook 1 failed") {
		t.Errorf("expected hook 1 error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  component.HealthStatus
		wantErr bool
	}{
		{"healthy", component.StatusHealthy, false},
		{"degraded", component.StatusDegraded, true},
		{"unhealthy", component.StatusUnhealthy, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			_ = app.RegisterComponent(&mockComponent{
				name:   "svc",
				health: component.Health{Status: tt.status, Message: "radio missing"},
			})
			err := app.ReadyCheck(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadyCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadyCheckPendingRecord(t *testing.T) {
	app := newTestApp(t)
	go app.Records.Open(record.Names.Radio)
	deadline := time.Now().Add(time.Second)
	for app.Records.Holders(record.Names.Radio) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("opener never registered")
		}
		time.Sleep(time.Millisecond)
	}

	if err := app.ReadyCheck(context.Background()); err == nil {
		t.Error("expected a pending record to fail the ready check")
	}
	app.Records.Create(record.Names.Radio, "cc1101")
}

func TestGracefulTimeout(t *testing.T) {
	if app := newTestApp(t); app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default 15s, got %v", app.gracefulTimeout)
	}
	if app := newTestApp(t, WithGracefulTimeout(3*time.Second)); app.gracefulTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", app.gracefulTimeout)
	}
}

func TestRunTaskError(t *testing.T) {
	app := newTestApp(t)
	err := app.RunTask(context.Background(), func(context.Context) error {
		return fmt.Errorf("task failed")
	})
	if err == nil || err.Error() != "task failed" {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	err := app.RunTask(ctx, func(taskCtx context.Context) error {
		cancel()
		<-taskCtx.Done()
		return taskCtx.Err()
	})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunTaskComponents(t *testing.T) {
	app := newTestApp(t)
	mc := &mockComponent{name: "menu", health: component.Health{Status: component.StatusHealthy}}
	_ = app.RegisterComponent(mc)

	_ = app.RunTask(context.Background(), func(context.Context) error { return nil })
	if !mc.started || !mc.stopped {
		t.Errorf("expected component started and stopped, got %+v", mc)
	}
}

func TestRunTaskPhaseErrors(t *testing.T) {
	failing := func(context.Context) error { return fmt.Errorf("boom") }
	tests := []struct {
		name  string
		setup func(app *App[*testConfig])
		want  string
	}{
		{"component start", func(a *App[*testConfig]) {
			_ = a.RegisterComponent(&mockComponent{name: "bad", startErr: fmt.Errorf("boom")})
		}, "initialization failed"},
		{"start hook", func(a *App[*testConfig]) { a.OnStart(failing) }, "onStart hook failed"},
		{"configure", func(a *App[*testConfig]) {
			a.OnConfigure(func(context.Context, *App[*testConfig]) error { return fmt.Errorf("boom") })
		}, "configuration failed"},
		{"ready hook", func(a *App[*testConfig]) { a.OnReady(failing) }, "onReady hook failed"},
		{"stop hook", func(a *App[*testConfig]) { a.OnStop(failing) }, "hook 0 failed"},
		{"component stop", func(a *App[*testConfig]) {
			_ = a.RegisterComponent(&mockComponent{name: "bad", stopErr: fmt.Errorf("boom")})
		}, "failed to stop bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			tt.setup(app)
			err := app.RunTask(context.Background(), func(context.Context) error { return nil })
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error { cancel(); return nil })

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestShutdown(t *testing.T) {
	app := newTestApp(t)
	mc := &mockComponent{name: "svc"}
	_ = app.RegisterComponent(mc)
	_ = app.Components.StartAll(context.Background())

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !mc.stopped {
		t.Error("expected component to be stopped")
	}
}

func TestWaitForSignalContextCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sig := app.WaitForSignal(ctx); sig != nil {
		t.Errorf("expected nil signal, got %v", sig)
	}
}

type routedComponent struct {
	mockComponent
}

func (r *routedComponent) Describe() component.Description {
	return component.Description{Name: "Debug Server", Type: "server", Details: "127.0.0.1:8089", Port: 8089}
}

func (r *routedComponent) Routes() []component.Route {
	return []component.Route{{Method: "GET", Path: "/records", Handler: "Server.listRecords"}}
}

func TestSummaryDisplay(t *testing.T) {
	app := newTestApp(t)
	var buf bytes.Buffer
	app.Summary.SetOutput(&buf)
	app.Summary.SetStartupDuration(1500 * time.Millisecond)
	app.Summary.TrackService("radio-driver", []string{"radio"}, nil)
	app.Summary.TrackService("menu", nil, []string{"radio", "notification"})

	_ = app.RegisterComponent(&routedComponent{mockComponent{
		name:   "debug-server",
		health: component.Health{Status: component.StatusUnhealthy, Message: "not started"},
	}})
	app.Records.Create("radio", 1)
	go app.Records.Open("notification")
	deadline := time.Now().Add(time.Second)
	for !app.Records.Exists("notification") {
		if time.Now().After(deadline) {
			t.Fatal("opener never registered")
		}
		time.Sleep(time.Millisecond)
	}

	app.DisplaySummary()
	out := buf.String()

	for _, want := range []string{
		"recordd v1.0.0 started in 1.50s",
		"Record Registry [registry]",
		"Debug Server [server] 127.0.0.1:8089",
		"radio-driver publishes=radio",
		"menu consumes=radio,notification",
		"Records (2)",
		"⏳ notification holders=1",
		"✅ radio holders=0",
		"GET     /records → Server.listRecords",
		"debug-server: down (not started)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected summary to contain %q\n%s", want, out)
		}
	}
	app.Records.Create("notification", "vibro")
}

func TestSummaryNilRegistries(t *testing.T) {
	var buf bytes.Buffer
	s := NewSummary("recordd", "dev")
	s.SetOutput(&buf)
	s.DisplaySummary(nil, nil, nil)
	if !strings.Contains(buf.String(), "No components registered") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestTreePrefix(t *testing.T) {
	if treePrefix(0, 2) != "├──" || treePrefix(1, 2) != "└──" {
		t.Error("unexpected tree prefixes")
	}
}

func TestHealthStatusIcon(t *testing.T) {
	tests := []struct {
		status component.HealthStatus
		want   string
	}{
		{component.StatusHealthy, "✅"},
		{component.StatusDegraded, "⚠️"},
		{component.StatusUnhealthy, "❌"},
		{"unknown", "❓"},
	}
	for _, tt := range tests {
		if got := healthStatusIcon(tt.status); got != tt.want {
			t.Errorf("healthStatusIcon(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
