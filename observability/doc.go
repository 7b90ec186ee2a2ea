// Package observability wires OpenTelemetry tracing and metrics for recordkit.
//
// Setup builds OTLP/HTTP tracer and meter providers from the observability
// config section; when disabled it returns empty Providers whose
// MeterProvider is a no-op.
//
//	p, err := observability.Setup(ctx, cfg.Observability, "recordd", version.GetVersion(), "production")
//	defer p.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanRecordOpen)
//	defer span.End()
//
// Health types are shared by components and the debug server:
//
//	health := observability.NewServiceHealth("recordd", "1.0.0", checks...)
package observability
