package record

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/observability"
)

// OpenContext is Open with cooperative cancellation. When ctx ends before
// the record is published, the holder taken for this call is given back and
// a CANCELED or TIMEOUT AppError is returned. If the record becomes ready
// while ctx is ending, the payload is returned and the holder kept.
//
// Config.OpenTimeout applies when ctx carries no deadline. A full registry
// yields RESOURCE_EXHAUSTED instead of a contract violation. On success the
// caller owes one Close.
func (r *Registry) OpenContext(ctx context.Context, name string) (any, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRecordOpen,
		trace.WithAttributes(attribute.String(observability.AttrRecordName, name)))
	defer span.End()

	r.mustValidName("open", name)

	if r.cfg.OpenTimeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.cfg.OpenTimeout)
			defer cancel()
		}
	}

	e, appErr := r.reserve(name)
	if appErr != nil {
		if appErr.Code != errors.ErrCodeResourceExhausted {
			r.fatal("open", name, appErr)
		}
		failSpan(ctx, appErr)
		r.log.WithContext(ctx).Warn("record registry full", logger.MergeWithError(logger.RecordFields("open", name), appErr))
		return nil, appErr
	}

	payload, err := r.waitContext(ctx, name, e)
	if err != nil {
		failSpan(ctx, err)
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrRecordReady, true)
	return payload, nil
}

func (r *Registry) waitContext(ctx context.Context, name string, e *entry) (any, error) {
	select {
	case <-e.ready:
		return e.payload, nil
	default:
	}

	log := r.log.WithContext(ctx)
	start := time.Now()
	r.metrics.waiterAdded(name, 1)
	defer r.metrics.waiterAdded(name, -1)
	log.Debug("waiting for record", logger.RecordFields("open", name))

	select {
	case <-e.ready:
		r.metrics.waited(name, outcomeReady, time.Since(start))
		return e.payload, nil
	case <-ctx.Done():
	}

	if !r.abandon(name, e) {
		r.metrics.waited(name, outcomeReady, time.Since(start))
		return e.payload, nil
	}

	appErr := waitError(fmt.Sprintf("open %q", name), ctx.Err())
	outcome := outcomeCanceled
	if appErr.Code == errors.ErrCodeTimeout {
		outcome = outcomeTimeout
	}
	waited := time.Since(start)
	r.metrics.waited(name, outcome, waited)
	log.Debug("stopped waiting for record", logger.MergeWithDuration(logger.Fields(
		logger.FieldOperation, "open",
		logger.FieldRecord, name,
		logger.FieldCode, string(appErr.Code),
	), waited))
	return nil, appErr
}

// abandon gives back the holder reserved for an open that stopped waiting.
// It reports false when the record was published first; the holder is then
// kept and the caller should return the payload.
func (r *Registry) abandon(name string, e *entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.present {
		return false
	}
	e.holders--
	r.metrics.holderAdded(name, -1)
	return true
}

func waitError(op string, err error) *errors.AppError {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(op).WithCause(err)
	}
	return errors.Canceled(op).WithCause(err)
}

func failSpan(ctx context.Context, err error) {
	observability.SetSpanError(ctx, err)
	if appErr, ok := errors.AsAppError(err); ok {
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
	}
	observability.SpanFromContext(ctx).SetStatus(codes.Error, err.Error())
}
