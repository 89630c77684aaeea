// Package adapters tests the sink glue and middleware chain.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"fmt"
	"testing"

	"github.com/momentics/hioload-pipe/api"
	"github.com/momentics/hioload-pipe/control"
)

func TestHooks_NilFuncsAreNoOps(t *testing.T) {
	var h Hooks
	if err := h.HandleRead(); err != nil {
		t.Errorf("nil OnRead must be a no-op, got %v", err)
	}
	if err := h.HandleWrite(); err != nil {
		t.Errorf("nil OnWrite must be a no-op, got %v", err)
	}
}

func TestMiddlewareSink_ChainOrder(t *testing.T) {
	var trace []string
	base := Hooks{OnRead: func() error {
		trace = append(trace, "base")
		return nil
	}}

	tag := func(name string) func(api.EventSink) api.EventSink {
		return func(next api.EventSink) api.EventSink {
			return Hooks{OnRead: func() error {
				trace = append(trace, name)
				return next.HandleRead()
			}}
		}
	}

	m := NewMiddlewareSink(base).Use(tag("outer")).Use(tag("inner"))
	if err := m.HandleRead(); err != nil {
		t.Fatalf("HandleRead failed: %v", err)
	}
	want := []string{"outer", "inner", "base"}
	for i := range want {
		if i >= len(trace) || trace[i] != want[i] {
			t.Fatalf("expected chain %v, got %v", want, trace)
		}
	}
}

func TestMetricsMiddleware_Counts(t *testing.T) {
	reg := control.NewMetricsRegistry()
	failing := Hooks{
		OnRead:  func() error { return fmt.Errorf("decode failure") },
		OnWrite: func() error { return nil },
	}
	sink := MetricsMiddleware(reg)(failing)

	if err := sink.HandleRead(); err == nil {
		t.Errorf("middleware must pass hook errors through")
	}
	_ = sink.HandleWrite()
	_ = sink.HandleWrite()

	if n := reg.Counter(control.MetricSinkReads); n != 1 {
		t.Errorf("expected 1 read, got %d", n)
	}
	if n := reg.Counter(control.MetricSinkWrites); n != 2 {
		t.Errorf("expected 2 writes, got %d", n)
	}
	if n := reg.Counter(control.MetricSinkFailures); n != 1 {
		t.Errorf("expected 1 failure, got %d", n)
	}
}
