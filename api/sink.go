// File: api/sink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Overridable hook surface invoked by the dispatch core, and the error
// notification contract for terminal handler conditions.

package api

// EventSink is the contract surface callers implement to consume pipe
// readiness. Both hooks run synchronously inside one dispatch, readable
// strictly before writable, and must not re-enter lifecycle-mutating
// operations on the owning handler.
//
// A returned error is treated as a recoverable runtime failure (for
// example a malformed-message decode error): the handler force-closes
// and reports through its error callback. Panics with runtime.Error
// values are programming defects and propagate uncaught.
type EventSink interface {
	// HandleRead is invoked when the readable signal bit is set.
	HandleRead() error

	// HandleWrite is invoked when the writable signal bit is set.
	HandleWrite() error
}

// DispatchError carries the terminal notification delivered to a
// handler's error callback. Err is nil when the handler closed because
// the peer went away; otherwise it holds the original hook failure and
// Stack the call-stack context captured at interception.
type DispatchError struct {
	Err   error
	Stack []byte
}

// Error implements the error interface.
func (d *DispatchError) Error() string {
	if d.Err == nil {
		return "pipe handler closed: peer closed"
	}
	return "pipe handler closed: " + d.Err.Error()
}

// Unwrap exposes the original failure for errors.Is/As chains.
func (d *DispatchError) Unwrap() error { return d.Err }

// PeerClosed reports whether this notification signals a graceful
// close caused by the remote end rather than a failure.
func (d *DispatchError) PeerClosed() bool { return d.Err == nil }

// ErrorFunc receives at most one terminal DispatchError per handler
// lifetime, after the handler has finished closing.
type ErrorFunc func(*DispatchError)
