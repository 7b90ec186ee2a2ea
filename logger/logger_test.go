package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func jsonLogger(buf *bytes.Buffer) *Logger {
	return New(&Config{Level: "debug", Format: "json", Writer: buf}, "test")
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &out); err != nil {
		t.Fatalf("failed to decode log line %q: %v", lines[len(lines)-1], err)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestWriterReceivesFields(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf)

	l.WithComponent("record").Info("record published", Fields(FieldRecord, "radio", FieldHolders, 2))

	line := lastLine(t, &buf)
	if line["message"] != "record published" {
		t.Errorf("expected message, got %v", line["message"])
	}
	if line[FieldComponent] != "record" {
		t.Errorf("expected component=record, got %v", line[FieldComponent])
	}
	if line[FieldRecord] != "radio" {
		t.Errorf("expected record=radio, got %v", line[FieldRecord])
	}
	if line[FieldHolders] != float64(2) {
		t.Errorf("expected holders=2, got %v", line[FieldHolders])
	}
}

func TestWithContextWithoutSpan(t *testing.T) {
	l := NewNop()
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when the context has no span")
	}
}

func TestWithContextAddsTraceIDs(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	jsonLogger(&buf).WithContext(ctx).Info("traced")

	line := lastLine(t, &buf)
	if line[FieldTraceID] != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace id %s, got %v", span.SpanContext().TraceID(), line[FieldTraceID])
	}
	if line[FieldSpanID] != span.SpanContext().SpanID().String() {
		t.Errorf("expected span id %s, got %v", span.SpanContext().SpanID(), line[FieldSpanID])
	}
}

func TestInit(t *testing.T) {
	Init(&Config{Level: "info", Format: "console", ServiceName: "init-test"})
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if gl.service != "init-test" {
		t.Errorf("expected service 'init-test', got %q", gl.service)
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	if l := GetGlobalLogger(); l == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"valid pretty", Config{Level: "debug", Format: "pretty"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleLoggerNoColor(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "info", Format: "console", NoColor: true, Writer: &buf}, "recordd")
	l.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "[REC][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("expected no color escapes, got %q", out)
	}
}

func TestGetCachesLogger(t *testing.T) {
	first := Get("record")
	if first == nil {
		t.Fatal("expected non-nil logger")
	}
	if Get("record") != first {
		t.Error("expected Get to return the cached logger")
	}
}

func TestGetUnregistered(t *testing.T) {
	if got := Get("unregistered-component"); got == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"record", "gui", "holders", 42}, map[string]interface{}{"record": "gui", "holders": 42}},
		{"odd number of args", []interface{}{"op", "open", "trailing"}, map[string]interface{}{"op": "open"}},
		{"empty", []interface{}{}, map[string]interface{}{}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestRecordFields(t *testing.T) {
	fields := RecordFields("open", "radio")
	if fields[FieldOperation] != "open" || fields[FieldRecord] != "radio" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestMergeHelpers(t *testing.T) {
	fields := MergeWithError(map[string]interface{}{"op": "close"}, fmt.Errorf("x"))
	if fields[FieldError] != "x" || fields["op"] != "close" {
		t.Errorf("unexpected merged fields %v", fields)
	}
	if MergeWithError(nil, fmt.Errorf("y"))[FieldError] != "y" {
		t.Error("expected error field from nil map")
	}
	if MergeWithDuration(nil, 200*time.Millisecond)[FieldDuration] != int64(200) {
		t.Error("expected duration field from nil map")
	}
}
