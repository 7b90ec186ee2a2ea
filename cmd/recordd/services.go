package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/record"
	"github.com/kbukum/recordkit/resilience"
)

// Radio is the handle the radio driver publishes under record.Names.Radio.
type Radio struct {
	Module    string
	Frequency uint32

	mu   sync.Mutex
	sent []string
}

// Transmit queues a frame on the radio.
func (r *Radio) Transmit(frame string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, frame)
}

// Sent returns the frames transmitted so far.
func (r *Radio) Sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

// Notifier is the handle the notification service publishes under
// record.Names.Notification.
type Notifier struct {
	log *logger.Logger

	mu       sync.Mutex
	messages []string
}

// Notify delivers a user-visible message.
func (n *Notifier) Notify(msg string) {
	n.mu.Lock()
	n.messages = append(n.messages, msg)
	n.mu.Unlock()
	n.log.Info("notification", logger.Fields("message", msg))
}

// Messages returns every delivered message.
func (n *Notifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// services runs the built-in system services against a shared registry:
// the radio driver and notification service publish, the menu scene
// consumes both.
type services struct {
	cfg     ServicesConfig
	records *record.Registry
	log     *logger.Logger

	radio    *Radio
	notifier *Notifier

	mu     sync.Mutex
	leases []func()
}

func newServices(cfg ServicesConfig, records *record.Registry, log *logger.Logger) *services {
	return &services{
		cfg:      cfg,
		records:  records,
		log:      log,
		radio:    &Radio{Module: cfg.RadioModule, Frequency: cfg.RadioFrequency},
		notifier: &Notifier{log: log.WithComponent("notification")},
	}
}

// start launches every service concurrently. The menu scene is launched
// first, so it usually opens records before their publishers create them.
func (s *services) start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.runMenu(gctx) })
	g.Go(func() error {
		s.jitter()
		s.records.Create(record.Names.Radio, s.radio)
		s.log.Info("radio driver published", logger.Fields(
			logger.FieldRecord, record.Names.Radio,
			"module", s.radio.Module,
		))
		return nil
	})
	g.Go(func() error {
		s.jitter()
		s.records.Create(record.Names.Notification, s.notifier)
		s.log.Info("notification service published", logger.Fields(logger.FieldRecord, record.Names.Notification))
		return nil
	})

	return g.Wait()
}

func (s *services) runMenu(ctx context.Context) error {
	radio, err := record.Acquire[*Radio](ctx, s.records, record.Names.Radio)
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	s.hold(radio.Release)

	notifier, err := record.Acquire[*Notifier](ctx, s.records, record.Names.Notification)
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	s.hold(notifier.Release)

	r := radio.Value()
	r.Transmit("menu:hello")
	notifier.Value().Notify(fmt.Sprintf("%s ready at %d Hz", r.Module, r.Frequency))
	return nil
}

func (s *services) hold(release func()) {
	s.mu.Lock()
	s.leases = append(s.leases, release)
	s.mu.Unlock()
}

// stop releases the menu's leases, then destroys the published records,
// waiting out any holders that have not closed yet.
func (s *services) stop(ctx context.Context) error {
	s.mu.Lock()
	leases := s.leases
	s.leases = nil
	s.mu.Unlock()
	for i := len(leases) - 1; i >= 0; i-- {
		leases[i]()
	}

	var errs []error
	for _, name := range []string{record.Names.Notification, record.Names.Radio} {
		if !s.records.Exists(name) {
			continue
		}
		var zero resilience.RetryConfig
		if err := s.records.DestroyWithRetry(ctx, name, zero); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *services) jitter() {
	if s.cfg.StartupJitter <= 0 {
		return
	}
	time.Sleep(time.Duration(rand.IntN(s.cfg.StartupJitter)) * time.Millisecond)
}
