// File: watch/signaler.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral signaler contract: observes OS handles and reports
// readiness as api.Signal bitmasks. One-shot semantics: after a report
// the handle stays silent until re-armed.

package watch

import "github.com/momentics/hioload-pipe/api"

// signalEvent is one readiness report for one handle.
type signalEvent struct {
	handle api.Handle
	signal api.Signal
}

// signaler abstracts the OS readiness mechanism (epoll on Linux).
type signaler interface {
	// Add registers a handle for one-shot readiness observation.
	Add(h api.Handle) error

	// Arm re-arms a previously added handle for further signals.
	// Fails when the handle is no longer viable.
	Arm(h api.Handle) error

	// Remove deregisters a handle.
	Remove(h api.Handle) error

	// Wait blocks until readiness is available and fills out.
	Wait(out []signalEvent) (int, error)

	// Wake interrupts a blocked Wait.
	Wake() error

	// Close releases the signaler resources.
	Close() error
}
