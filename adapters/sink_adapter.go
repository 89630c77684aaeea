// File: adapters/sink_adapter.go
// Package adapters
// Author: momentics <momentics@gmail.com>
//
// EventSink glue and extensible sink middleware chain.

package adapters

import (
	"log"

	"github.com/momentics/hioload-pipe/api"
	"github.com/momentics/hioload-pipe/control"
)

// Hooks turns a pair of functions into an api.EventSink. A nil
// function leaves the corresponding hook as a no-op, matching the
// default-hook contract of the dispatch core.
type Hooks struct {
	OnRead  func() error
	OnWrite func() error
}

// HandleRead calls OnRead when set.
func (h Hooks) HandleRead() error {
	if h.OnRead != nil {
		return h.OnRead()
	}
	return nil
}

// HandleWrite calls OnWrite when set.
func (h Hooks) HandleWrite() error {
	if h.OnWrite != nil {
		return h.OnWrite()
	}
	return nil
}

// MiddlewareSink wraps a base sink and applies middleware in chain.
type MiddlewareSink struct {
	sink       api.EventSink
	middleware []func(api.EventSink) api.EventSink
}

// NewMiddlewareSink creates a new MiddlewareSink for the given base sink.
func NewMiddlewareSink(sink api.EventSink) *MiddlewareSink {
	return &MiddlewareSink{
		sink:       sink,
		middleware: make([]func(api.EventSink) api.EventSink, 0),
	}
}

// Use appends a middleware to the chain.
func (m *MiddlewareSink) Use(mw func(api.EventSink) api.EventSink) *MiddlewareSink {
	m.middleware = append(m.middleware, mw)
	return m
}

// chain materializes the wrapped sink.
func (m *MiddlewareSink) chain() api.EventSink {
	sink := m.sink
	for i := len(m.middleware) - 1; i >= 0; i-- {
		sink = m.middleware[i](sink)
	}
	return sink
}

// HandleRead applies all middleware then calls the base sink.
func (m *MiddlewareSink) HandleRead() error { return m.chain().HandleRead() }

// HandleWrite applies all middleware then calls the base sink.
func (m *MiddlewareSink) HandleWrite() error { return m.chain().HandleWrite() }

// LoggingMiddleware logs entry and errors of hook invocations.
func LoggingMiddleware(next api.EventSink) api.EventSink {
	return Hooks{
		OnRead: func() error {
			err := next.HandleRead()
			if err != nil {
				log.Printf("[sink] read hook error: %v", err)
			}
			return err
		},
		OnWrite: func() error {
			err := next.HandleWrite()
			if err != nil {
				log.Printf("[sink] write hook error: %v", err)
			}
			return err
		},
	}
}

// MetricsMiddleware counts hook invocations and failures in the given
// control registry.
func MetricsMiddleware(reg *control.MetricsRegistry) func(api.EventSink) api.EventSink {
	return func(next api.EventSink) api.EventSink {
		return Hooks{
			OnRead: func() error {
				reg.Add(control.MetricSinkReads, 1)
				err := next.HandleRead()
				if err != nil {
					reg.Add(control.MetricSinkFailures, 1)
				}
				return err
			},
			OnWrite: func() error {
				reg.Add(control.MetricSinkWrites, 1)
				err := next.HandleWrite()
				if err != nil {
					reg.Add(control.MetricSinkFailures, 1)
				}
				return err
			},
		}
	}
}
