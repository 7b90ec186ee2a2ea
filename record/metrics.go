package record

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/recordkit/errors"
)

// Metric names.
const (
	MetricEntries     = "record.entries"
	MetricHolders     = "record.holders"
	MetricWaiters     = "record.waiters"
	MetricOpenWait    = "record.open.wait"
	MetricDestroyBusy = "record.destroy.busy"
	MetricViolations  = "record.violations"
)

// Metrics holds the registry instruments. A nil *Metrics records nothing.
type Metrics struct {
	entries     metric.Int64UpDownCounter
	holders     metric.Int64UpDownCounter
	waiters     metric.Int64UpDownCounter
	openWait    metric.Float64Histogram
	destroyBusy metric.Int64Counter
	violations  metric.Int64Counter
}

// NewMetrics creates registry instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	entries, err := meter.Int64UpDownCounter(MetricEntries,
		metric.WithDescription("Number of live record entries"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricEntries, err)
	}

	holders, err := meter.Int64UpDownCounter(MetricHolders,
		metric.WithDescription("Open calls without a matching close"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricHolders, err)
	}

	waiters, err := meter.Int64UpDownCounter(MetricWaiters,
		metric.WithDescription("Goroutines blocked waiting for a record to be published"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricWaiters, err)
	}

	openWait, err := meter.Float64Histogram(MetricOpenWait,
		metric.WithDescription("Time an open spent waiting for the record"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricOpenWait, err)
	}

	destroyBusy, err := meter.Int64Counter(MetricDestroyBusy,
		metric.WithDescription("Destroy attempts refused because the record had holders"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricDestroyBusy, err)
	}

	violations, err := meter.Int64Counter(MetricViolations,
		metric.WithDescription("Contract violations by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricViolations, err)
	}

	return &Metrics{
		entries:     entries,
		holders:     holders,
		waiters:     waiters,
		openWait:    openWait,
		destroyBusy: destroyBusy,
		violations:  violations,
	}, nil
}

func (m *Metrics) entryAdded(delta int64) {
	if m == nil {
		return
	}
	m.entries.Add(context.Background(), delta)
}

func (m *Metrics) holderAdded(name string, delta int64) {
	if m == nil {
		return
	}
	m.holders.Add(context.Background(), delta, metric.WithAttributes(attribute.String("record", name)))
}

func (m *Metrics) waiterAdded(name string, delta int64) {
	if m == nil {
		return
	}
	m.waiters.Add(context.Background(), delta, metric.WithAttributes(attribute.String("record", name)))
}

func (m *Metrics) waited(name, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.openWait.Record(context.Background(), d.Seconds(), metric.WithAttributes(
		attribute.String("record", name),
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) busy(name string) {
	if m == nil {
		return
	}
	m.destroyBusy.Add(context.Background(), 1, metric.WithAttributes(attribute.String("record", name)))
}

func (m *Metrics) violation(op string, code errors.ErrorCode) {
	if m == nil {
		return
	}
	m.violations.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("code", string(code)),
	))
}
