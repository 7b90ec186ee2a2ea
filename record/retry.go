package record

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/observability"
	"github.com/kbukum/recordkit/resilience"
)

// DestroyWithRetry retries Destroy while name is still held, backing off
// per cfg. A zero cfg falls back to Config.DestroyRetry. When attempts run
// out the last RECORD_BUSY error is returned; when ctx ends first a
// CANCELED or TIMEOUT error is. Destroying an unknown name is still a
// contract violation.
func (r *Registry) DestroyWithRetry(ctx context.Context, name string, cfg resilience.RetryConfig) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanRecordDestroy,
		trace.WithAttributes(attribute.String(observability.AttrRecordName, name)))
	defer span.End()

	if cfg.MaxAttempts == 0 {
		cfg = r.cfg.DestroyRetry
	}
	log := r.log.WithContext(ctx)
	if cfg.OnRetry == nil {
		cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
			log.Debug("record busy, retrying destroy", logger.MergeWithDuration(logger.Fields(
				logger.FieldRecord, name,
				"attempt", attempt,
			), backoff))
		}
	}

	err := resilience.RetryFunc(ctx, cfg, func() error {
		if r.Destroy(name) {
			return nil
		}
		return errors.Busy(name, r.Holders(name))
	})
	if err == nil {
		return nil
	}
	if !errors.IsAppError(err) {
		err = waitError("destroy "+name, err)
	}
	failSpan(ctx, err)
	return err
}
