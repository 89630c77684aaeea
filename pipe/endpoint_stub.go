//go:build !linux
// +build !linux

// File: pipe/endpoint_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package pipe

import "github.com/momentics/hioload-pipe/api"

// Endpoint is unavailable on this platform.
type Endpoint struct{}

// Pair returns an error for unsupported platforms.
func Pair() (*Endpoint, *Endpoint, error) {
	return nil, nil, api.ErrNotSupported
}

// FromFD returns an inert endpoint for unsupported platforms.
func FromFD(fd int) *Endpoint { return &Endpoint{} }

// Handle returns a zero handle.
func (e *Endpoint) Handle() api.Handle { return 0 }

// Read is unsupported.
func (e *Endpoint) Read(p []byte) (int, error) { return 0, api.ErrNotSupported }

// Write is unsupported.
func (e *Endpoint) Write(p []byte) (int, error) { return 0, api.ErrNotSupported }

// Close is a no-op.
func (e *Endpoint) Close() error { return nil }
