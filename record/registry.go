package record

import (
	"sort"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/validation"
)

// Wait outcomes reported on the open wait histogram.
const (
	outcomeReady    = "ready"
	outcomeTimeout  = "timeout"
	outcomeCanceled = "canceled"
)

// entry is one named slot. payload and present are written once, under the
// registry lock, immediately before ready is closed.
type entry struct {
	payload any
	present bool
	ready   chan struct{}
	holders int
}

func newEntry() *entry {
	return &entry{ready: make(chan struct{})}
}

// Info is a point-in-time view of one entry.
type Info struct {
	Name    string `json:"name" yaml:"name"`
	Ready   bool   `json:"ready" yaml:"ready"`
	Holders int    `json:"holders" yaml:"holders"`
}

// Registry is a thread-safe table of named records. Publishers Create a
// payload under a name; consumers Open the name, blocking until the payload
// is present, and Close it when done. Destroy removes a record only once no
// holders remain.
//
// Misuse (double Create, Close without Open, Destroy of an unknown name,
// invalid names) is a contract violation and is raised, never returned.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry

	cfg     Config
	log     *logger.Logger
	meter   metric.Meter
	metrics *Metrics
	leases  *xsync.Map[string, LeaseInfo]
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		leases:  xsync.NewMap[string, LeaseInfo](),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cfg.ApplyDefaults()
	if r.log == nil {
		r.log = logger.Get("record")
	}
	if r.meter != nil {
		m, err := NewMetrics(r.meter)
		if err != nil {
			r.log.Warn("record metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		} else {
			r.metrics = m
		}
	}
	return r
}

// Config returns the effective configuration.
func (r *Registry) Config() Config {
	return r.cfg
}

// Exists reports whether name is registered, whether or not it has a payload.
func (r *Registry) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[name]
	return ok
}

// Create publishes payload under name and wakes every goroutine blocked in
// Open for it. A nil payload is a valid payload. Creating a name that
// already has a payload is a contract violation.
func (r *Registry) Create(name string, payload any) {
	r.mustValidName("create", name)
	if err := r.publish(name, payload); err != nil {
		r.fatal("create", name, err)
	}
	r.log.Debug("record published", logger.RecordFields("create", name))
}

func (r *Registry) publish(name string, payload any) *errors.AppError {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.locate(name)
	if err != nil {
		return err
	}
	if e.present {
		return errors.AlreadyCreated(name)
	}
	e.payload = payload
	e.present = true
	close(e.ready)
	return nil
}

// Destroy removes name if nobody holds it and reports whether it did. A
// held record is left untouched and false is returned. Destroying an
// unknown name is a contract violation. The payload is never finalized.
func (r *Registry) Destroy(name string) bool {
	removed, holders, err := r.remove(name)
	if err != nil {
		r.fatal("destroy", name, err)
	}
	if !removed {
		r.metrics.busy(name)
		r.log.Warn("record still held, not destroyed", logger.Fields(
			logger.FieldOperation, "destroy",
			logger.FieldRecord, name,
			logger.FieldHolders, holders,
		))
		return false
	}
	r.log.Debug("record destroyed", logger.RecordFields("destroy", name))
	return true
}

func (r *Registry) remove(name string) (bool, int, *errors.AppError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return false, 0, errors.RecordNotFound("destroy", name)
	}
	if e.holders > 0 {
		return false, e.holders, nil
	}
	delete(r.entries, name)
	r.metrics.entryAdded(-1)
	return true, 0, nil
}

// Open returns the payload published under name, blocking with no timeout
// until it is created. The holder count is raised before waiting, so the
// record cannot be destroyed under a pending Open. Every Open must be paired
// with a Close.
func (r *Registry) Open(name string) any {
	r.mustValidName("open", name)
	e, err := r.reserve(name)
	if err != nil {
		r.fatal("open", name, err)
	}
	return r.wait(name, e)
}

// reserve locates or creates the entry and takes a holder slot on it.
func (r *Registry) reserve(name string) (*entry, *errors.AppError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.locate(name)
	if err != nil {
		return nil, err
	}
	e.holders++
	r.metrics.holderAdded(name, 1)
	return e, nil
}

// locate returns the entry for name, creating an empty one when missing.
// The caller must hold r.mu.
func (r *Registry) locate(name string) (*entry, *errors.AppError) {
	if e, ok := r.entries[name]; ok {
		return e, nil
	}
	if r.cfg.MaxRecords > 0 && len(r.entries) >= r.cfg.MaxRecords {
		return nil, errors.ResourceExhausted(name, r.cfg.MaxRecords)
	}
	e := newEntry()
	r.entries[name] = e
	r.metrics.entryAdded(1)
	r.log.Debug("record entry created", logger.RecordFields("locate", name))
	return e, nil
}

func (r *Registry) wait(name string, e *entry) any {
	select {
	case <-e.ready:
		return e.payload
	default:
	}

	start := time.Now()
	r.metrics.waiterAdded(name, 1)
	r.log.Debug("waiting for record", logger.RecordFields("open", name))

	<-e.ready

	waited := time.Since(start)
	r.metrics.waiterAdded(name, -1)
	r.metrics.waited(name, outcomeReady, waited)
	r.log.Debug("record ready", logger.MergeWithDuration(logger.RecordFields("open", name), waited))
	return e.payload
}

// Close releases one holder taken by Open. Closing an unknown name or a
// name with no holders is a contract violation.
func (r *Registry) Close(name string) {
	if err := r.release(name); err != nil {
		r.fatal("close", name, err)
	}
	r.log.Debug("record closed", logger.RecordFields("close", name))
}

func (r *Registry) release(name string) *errors.AppError {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return errors.RecordNotFound("close", name)
	}
	if e.holders == 0 {
		return errors.Underflow(name)
	}
	e.holders--
	r.metrics.holderAdded(name, -1)
	return nil
}

// Holders returns the current holder count of name, or 0 if unregistered.
func (r *Registry) Holders(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok {
		return e.holders
	}
	return 0
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Snapshot returns every entry sorted by name.
func (r *Registry) Snapshot() []Info {
	r.mu.Lock()
	infos := make([]Info, 0, len(r.entries))
	for name, e := range r.entries {
		infos = append(infos, Info{Name: name, Ready: e.present, Holders: e.holders})
	}
	r.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Lookup returns the Info for a single name.
func (r *Registry) Lookup(name string) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return Info{}, false
	}
	return Info{Name: name, Ready: e.present, Holders: e.holders}, true
}

func (r *Registry) mustValidName(op, name string) {
	v := validation.New().RecordName("name", name, r.cfg.MaxNameLength)
	if appErr := v.Validate(); appErr != nil {
		r.fatal(op, name, errors.InvalidInput("name", appErr.Message).WithCause(appErr))
	}
}

// fatal reports a contract violation. It never returns: in exit mode the
// logger terminates the process, otherwise err is raised as a panic. Callers
// must not hold r.mu.
func (r *Registry) fatal(op, name string, err *errors.AppError) {
	r.metrics.violation(op, err.Code)

	fields := logger.RecordFields(op, name)
	fields[logger.FieldCode] = string(err.Code)
	fields[logger.FieldError] = err.Message

	if r.cfg.FatalMode == FatalExit {
		r.log.Fatal("record contract violation", fields)
	}
	r.log.Error("record contract violation", fields)
	panic(err)
}
