// File: api/signals.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Readiness signal bitmask reported by the platform for a pipe handle.

package api

// Signal is a bitmask of readiness conditions observed on a handle.
type Signal uint32

// Signal bits delivered by the subscription service.
const (
	// SignalReadable indicates the endpoint has data ready to read.
	SignalReadable Signal = 1 << iota

	// SignalWritable indicates the endpoint can accept a write.
	SignalWritable

	// SignalPeerClosed indicates the remote end of the pipe has been
	// closed or is otherwise unreachable.
	SignalPeerClosed
)

// Readable reports whether the readable bit is set.
func (s Signal) Readable() bool { return s&SignalReadable != 0 }

// Writable reports whether the writable bit is set.
func (s Signal) Writable() bool { return s&SignalWritable != 0 }

// PeerClosed reports whether the peer-closed bit is set.
func (s Signal) PeerClosed() bool { return s&SignalPeerClosed != 0 }
