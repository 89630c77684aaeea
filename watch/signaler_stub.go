//go:build !linux
// +build !linux

// File: watch/signaler_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package watch

import "github.com/momentics/hioload-pipe/api"

// newSignaler returns an error for unsupported platforms.
func newSignaler(watchWritable bool) (signaler, error) {
	return nil, api.ErrNotSupported
}
