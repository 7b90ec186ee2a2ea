package record

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/recordkit/logger"
)

// LeaseInfo describes an outstanding lease.
type LeaseInfo struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Type       string    `json:"type" yaml:"type"`
	AcquiredAt time.Time `json:"acquired_at" yaml:"acquired_at"`
}

// Lease is one open of a record, with the matching close attached.
// Release it exactly when done; extra calls to Release are no-ops.
type Lease[T any] struct {
	id    string
	name  string
	value T
	r     *Registry
	once  sync.Once
}

// Acquire opens name as a T via OpenContext and tracks the result as a
// lease visible through (*Registry).Leases.
func Acquire[T any](ctx context.Context, r *Registry, name string) (*Lease[T], error) {
	v, err := OpenContext[T](ctx, r, name)
	if err != nil {
		return nil, err
	}

	l := &Lease[T]{
		id:    uuid.NewString(),
		name:  name,
		value: v,
		r:     r,
	}
	r.leases.Store(l.id, LeaseInfo{
		ID:         l.id,
		Name:       name,
		Type:       fmt.Sprintf("%T", v),
		AcquiredAt: time.Now(),
	})
	r.log.WithContext(ctx).Debug("lease acquired", logger.Fields(
		logger.FieldRecord, name,
		logger.FieldLeaseID, l.id,
	))
	return l, nil
}

// ID returns the lease identifier.
func (l *Lease[T]) ID() string { return l.id }

// Name returns the leased record name.
func (l *Lease[T]) Name() string { return l.name }

// Value returns the payload.
func (l *Lease[T]) Value() T { return l.value }

// Release closes the record once.
func (l *Lease[T]) Release() {
	l.once.Do(func() {
		l.r.leases.Delete(l.id)
		l.r.Close(l.name)
		l.r.log.Debug("lease released", logger.Fields(
			logger.FieldRecord, l.name,
			logger.FieldLeaseID, l.id,
		))
	})
}

// Leases lists outstanding leases, oldest first.
func (r *Registry) Leases() []LeaseInfo {
	out := make([]LeaseInfo, 0, r.leases.Size())
	r.leases.Range(func(_ string, info LeaseInfo) bool {
		out = append(out, info)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].AcquiredAt.Equal(out[j].AcquiredAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AcquiredAt.Before(out[j].AcquiredAt)
	})
	return out
}

// LookupLease returns the lease with the given id.
func (r *Registry) LookupLease(id string) (LeaseInfo, bool) {
	return r.leases.Load(id)
}
