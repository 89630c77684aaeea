// File: watch/service.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Watch service: owns the platform signaler, the poll goroutine and
// the serial dispatch loop, and hands out per-handle subscriptions.

package watch

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-pipe/api"
	"github.com/momentics/hioload-pipe/control"
)

// Service implements api.Subscriber on top of a platform signaler.
//
// A poll goroutine blocks on the signaler and forwards readiness into
// the inbox; the dispatch loop consumes inbox and teardown requests in
// order and invokes subscription callbacks serially. No two dispatches
// overlap, which is the serialization guarantee handlers rely on.
type Service struct {
	cfg     *Config
	sig     signaler
	metrics *control.MetricsRegistry

	mu   sync.Mutex
	subs map[api.Handle]*subscription

	inbox   chan signalEvent
	ctrl    chan *teardownReq
	quitCh  chan struct{}
	doneCh  chan struct{}
	running atomic.Bool
	stopped sync.Once
}

// Ensure compliance with the subscriber contract.
var _ api.Subscriber = (*Service)(nil)

// NewService constructs a Service backed by the platform signaler.
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.normalized()
	sig, err := newSignaler(cfg.WatchWritable)
	if err != nil {
		return nil, err
	}
	return newServiceWith(cfg, sig), nil
}

// newServiceWith wires a Service around an explicit signaler. Tests
// inject stubs through this constructor.
func newServiceWith(cfg *Config, sig signaler) *Service {
	return &Service{
		cfg:     cfg,
		sig:     sig,
		metrics: control.NewMetricsRegistry(),
		subs:    make(map[api.Handle]*subscription),
		inbox:   make(chan signalEvent, cfg.RingCapacity),
		ctrl:    make(chan *teardownReq, cfg.RingCapacity),
		quitCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Watch creates a fresh, not-yet-active subscription for the handle.
// At most one subscription may exist per handle at a time.
func (s *Service) Watch(h api.Handle) (api.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subs[h]; exists {
		return nil, api.ErrHandleWatched
	}
	sub := &subscription{svc: s, handle: h}
	s.subs[h] = sub
	return sub, nil
}

// Run starts the poll goroutine and runs the dispatch loop until Stop
// is called. It returns after the loop has drained its teardown work.
// The service is one-shot: once stopped, Run returns immediately.
func (s *Service) Run() {
	if !s.running.CompareAndSwap(false, true) {
		return // already running
	}
	select {
	case <-s.quitCh:
		// Stopped before (or while) starting; doneCh may already be
		// closed, so this run must not touch it.
		s.running.Store(false)
		return
	default:
	}
	defer func() {
		close(s.doneCh)
		s.running.Store(false)
	}()

	go s.pollLoop()
	s.dispatchLoop()
}

// Stop signals the loops to exit and waits for the dispatch loop to
// finish.
func (s *Service) Stop() {
	s.stopped.Do(func() {
		close(s.quitCh)
	})
	_ = s.sig.Wake()
	if s.running.Load() {
		<-s.doneCh
	}
}

// Close stops the service and releases the signaler.
func (s *Service) Close() error {
	s.Stop()
	return s.sig.Close()
}

// Metrics returns the service metrics registry.
func (s *Service) Metrics() *control.MetricsRegistry {
	return s.metrics
}

// pollLoop blocks on the signaler and forwards readiness reports into
// the inbox. It exits when the service stops.
func (s *Service) pollLoop() {
	buf := make([]signalEvent, s.cfg.BatchSize)
	for {
		select {
		case <-s.quitCh:
			return
		default:
		}

		n, err := s.sig.Wait(buf)
		if err != nil {
			select {
			case <-s.quitCh:
				return
			default:
			}
			log.Printf("[watch] signaler wait: %v", err)
			time.Sleep(time.Millisecond)
			continue
		}
		for i := 0; i < n; i++ {
			select {
			case s.inbox <- buf[i]:
			case <-s.quitCh:
				return
			}
		}
	}
}

// lookup returns the live subscription for a handle, if any.
func (s *Service) lookup(h api.Handle) *subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs[h]
}

// deliver invokes the subscription callback for one readiness report.
// Runs only on the dispatch loop goroutine. Panics are deliberately
// not recovered here: a runtime defect escaping a handler must reach
// the process fault handler.
func (s *Service) deliver(ev signalEvent) {
	sub := s.lookup(ev.handle)
	if sub == nil {
		s.metrics.Add(control.MetricDropped, 1)
		return
	}
	cb := sub.deliverable()
	if cb == nil {
		s.metrics.Add(control.MetricDropped, 1)
		return
	}
	s.metrics.Add(control.MetricDispatched, 1)
	cb(ev.signal)
}
