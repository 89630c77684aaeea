//go:build linux
// +build linux

// File: pipe/endpoint_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux endpoint backed by an AF_UNIX SOCK_SEQPACKET socketpair:
// bidirectional, connection-oriented, message-boundary preserving.

package pipe

import (
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-pipe/api"
)

// Endpoint is one side of a bidirectional message pipe.
type Endpoint struct {
	fd     int
	closed atomic.Bool
}

var _ api.Endpoint = (*Endpoint)(nil)

// Pair creates two connected endpoints. Both are non-blocking and
// close-on-exec.
func Pair() (*Endpoint, *Endpoint, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX,
		unix.SOCK_SEQPACKET|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}
	return &Endpoint{fd: fds[0]}, &Endpoint{fd: fds[1]}, nil
}

// FromFD wraps an existing descriptor. The endpoint takes ownership of
// the descriptor's lifetime.
func FromFD(fd int) *Endpoint {
	return &Endpoint{fd: fd}
}

// Handle returns the underlying OS-level handle.
func (e *Endpoint) Handle() api.Handle {
	return api.Handle(e.fd)
}

// Read reads one message into p. Returns api.ErrWouldBlock when no
// message is pending and io.EOF once the peer has closed.
func (e *Endpoint) Read(p []byte) (int, error) {
	if e.closed.Load() {
		return 0, api.ErrEndpointClosed
	}
	n, err := unix.Read(e.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, api.ErrWouldBlock
		}
		return 0, fmt.Errorf("pipe read: %w", err)
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write writes one message from p. Returns api.ErrWouldBlock when the
// send buffer is full.
func (e *Endpoint) Write(p []byte) (int, error) {
	if e.closed.Load() {
		return 0, api.ErrEndpointClosed
	}
	n, err := unix.Write(e.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, api.ErrWouldBlock
		}
		return 0, fmt.Errorf("pipe write: %w", err)
	}
	return n, nil
}

// Close releases the descriptor; idempotent.
func (e *Endpoint) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	return unix.Close(e.fd)
}
