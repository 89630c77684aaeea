// File: api/endpoint.go
// Author: momentics <momentics@gmail.com>
//
// Defines the pipe endpoint abstraction consumed by the dispatch core.
// The core treats an endpoint as opaque beyond its OS handle; concrete
// implementations (see package pipe) add actual byte I/O on top.

package api

// Handle is an OS-level identifier for one side of a message pipe:
// a file descriptor on Unix platforms, a HANDLE value on Windows.
type Handle uintptr

// Endpoint is one side of a bidirectional message-pipe channel.
//
// The dispatch core only needs the underlying handle for signal
// registration and the ability to release the endpoint on close.
// Reading and writing happen inside user hooks, which typically hold
// the concrete endpoint type directly.
type Endpoint interface {
	// Handle returns the underlying OS-level handle.
	Handle() Handle

	// Close releases the endpoint and notifies upstream layers.
	Close() error
}

// RawEndpoint adapts a bare OS handle into an Endpoint.
//
// Closing a RawEndpoint is a no-op: the handle's original owner keeps
// responsibility for releasing it. Use a concrete endpoint type when
// ownership should transfer to the handler.
type RawEndpoint Handle

// Handle returns the wrapped handle.
func (r RawEndpoint) Handle() Handle { return Handle(r) }

// Close is a no-op for non-owning raw endpoints.
func (r RawEndpoint) Close() error { return nil }
