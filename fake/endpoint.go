// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync/atomic"

	"github.com/momentics/hioload-pipe/api"
)

var _ api.Endpoint = (*Endpoint)(nil)

// Endpoint is a test double for api.Endpoint backed by nothing at all.
type Endpoint struct {
	Raw      api.Handle
	CloseErr error

	closes atomic.Int32
}

// NewEndpoint creates a fake endpoint with the given handle value.
func NewEndpoint(raw api.Handle) *Endpoint {
	return &Endpoint{Raw: raw}
}

// Handle returns the scripted handle value.
func (e *Endpoint) Handle() api.Handle { return e.Raw }

// Close records the call and returns the scripted error.
func (e *Endpoint) Close() error {
	e.closes.Add(1)
	return e.CloseErr
}

// CloseCount returns how many times Close was called.
func (e *Endpoint) CloseCount() int { return int(e.closes.Load()) }
