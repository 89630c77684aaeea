// File: facade/pipehost.go
// Unified facade layer for hioload-pipe library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the PipeHost struct, which aggregates the core
// components of hioload-pipe behind a single facade. It initializes the
// watch service from immutable configuration, runs its delivery loops,
// and exposes factory methods for event handlers bound to endpoints or
// raw handles, plus runtime services such as the metrics registry.

package facade

import (
	"sync"

	"github.com/momentics/hioload-pipe/api"
	"github.com/momentics/hioload-pipe/control"
	"github.com/momentics/hioload-pipe/dispatch"
	"github.com/momentics/hioload-pipe/watch"
)

// Config holds parameters immutable per run.
type Config struct {
	RingCapacity  int  // Capacity of the watch service signal inbox
	BatchSize     int  // Signals fetched per signaler wait cycle
	WatchWritable bool // Observe writable readiness as well
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	wc := watch.DefaultConfig()
	return &Config{
		RingCapacity:  wc.RingCapacity,
		BatchSize:     wc.BatchSize,
		WatchWritable: wc.WatchWritable,
	}
}

// PipeHost is the main facade type: one watch service plus handler
// factories bound to it.
type PipeHost struct {
	svc    *watch.Service
	config *Config

	mu      sync.Mutex // protects lifecycle flags
	started bool
	stopped bool
}

// New constructs a PipeHost with the given configuration.
func New(cfg *Config) (*PipeHost, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	svc, err := watch.NewService(&watch.Config{
		RingCapacity:  cfg.RingCapacity,
		BatchSize:     cfg.BatchSize,
		WatchWritable: cfg.WatchWritable,
	})
	if err != nil {
		return nil, err
	}
	return &PipeHost{svc: svc, config: cfg}, nil
}

// Start launches the watch service loops. Subsequent calls to Start()
// have no effect. The host is one-shot: starting again after Stop()
// fails with ErrServiceStopped.
func (p *PipeHost) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return api.ErrServiceStopped
	}
	if p.started {
		return nil
	}
	go p.svc.Run()
	p.started = true
	return nil
}

// Stop halts the watch service and releases the signaler. Calling
// Stop() on a non-started host is a no-op.
func (p *PipeHost) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}
	err := p.svc.Close()
	p.started = false
	p.stopped = true
	return err
}

// NewHandler creates an unbound event handler attached to this host's
// delivery service.
func (p *PipeHost) NewHandler(sink api.EventSink) *dispatch.EventHandler {
	return dispatch.New(sink, p.svc)
}

// BindHandler creates a handler already bound to ep, optionally
// starting event handling immediately.
func (p *PipeHost) BindHandler(sink api.EventSink, ep api.Endpoint, autoBegin bool) (*dispatch.EventHandler, error) {
	return dispatch.NewBound(sink, p.svc, ep, autoBegin)
}

// Subscriber exposes the underlying delivery service for handlers
// constructed outside the facade.
func (p *PipeHost) Subscriber() api.Subscriber {
	return p.svc
}

// Metrics returns the watch service metrics registry.
func (p *PipeHost) Metrics() *control.MetricsRegistry {
	return p.svc.Metrics()
}
