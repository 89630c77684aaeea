// File: watch/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Immutable configuration for the watch service.

package watch

// Config holds parameters immutable per run.
type Config struct {
	RingCapacity  int  // Capacity of the internal signal inbox
	BatchSize     int  // Max signals fetched per signaler wait
	WatchWritable bool // Also observe writable readiness
}

// DefaultConfig returns default configuration values.
//
// Writable readiness is off by default: pipes are writable almost
// always, so a one-shot writable watch re-fires on every re-arm.
// Enable it only for backpressure-driven writers.
func DefaultConfig() *Config {
	return &Config{
		RingCapacity:  1024, // 1024 entries in the signal inbox
		BatchSize:     16,   // Fetch 16 signals per wait cycle
		WatchWritable: false,
	}
}

func (c *Config) normalized() *Config {
	out := *c
	if out.RingCapacity <= 0 {
		out.RingCapacity = DefaultConfig().RingCapacity
	}
	if out.BatchSize <= 0 {
		out.BatchSize = DefaultConfig().BatchSize
	}
	return &out
}
