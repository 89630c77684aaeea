// Package control tests the metrics registry.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package control

import "testing"

func TestMetricsRegistry_SetAndSnapshot(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.Set("transport", "pipe")

	snap := mr.GetSnapshot()
	if snap["transport"] != "pipe" {
		t.Errorf("expected snapshot to carry the set value, got %v", snap["transport"])
	}

	// Snapshot must be a copy, not a live view.
	snap["transport"] = "mutated"
	if mr.GetSnapshot()["transport"] != "pipe" {
		t.Errorf("mutating a snapshot must not affect the registry")
	}
}

func TestMetricsRegistry_AddCounter(t *testing.T) {
	mr := NewMetricsRegistry()

	mr.Add(MetricDispatched, 1)
	mr.Add(MetricDispatched, 2)
	if n := mr.Counter(MetricDispatched); n != 3 {
		t.Errorf("expected counter 3, got %d", n)
	}
	if n := mr.Counter("missing"); n != 0 {
		t.Errorf("missing counter must read zero, got %d", n)
	}
}
