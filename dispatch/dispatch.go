// File: dispatch/dispatch.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Signal-to-hook mapping for one delivered event: readable before
// writable, peer-closed evaluation last, then the asynchronous close
// and terminal notification when the session ends.

package dispatch

import (
	"github.com/momentics/hioload-pipe/api"
)

// dispatch processes one delivered signal set. It runs on the delivery
// service goroutine; the service guarantees no two dispatches for this
// handler overlap.
func (h *EventHandler) dispatch(sig api.Signal) {
	h.mu.Lock()
	if h.st != stateBoundOpen {
		// Logically closed already; physical teardown may still be
		// pending. Drop the event.
		h.mu.Unlock()
		return
	}
	h.inHandler = true
	sink := h.sink
	sub := h.subscription
	h.mu.Unlock()

	// Hooks run outside the state lock so that reentrant lifecycle
	// calls from inside a hook fail fast on the inHandler guard
	// instead of deadlocking.
	failure, stack := isolate(func() error {
		if sig.Readable() {
			if err := sink.HandleRead(); err != nil {
				return err
			}
		}
		if sig.Writable() {
			if err := sink.HandleWrite(); err != nil {
				return err
			}
		}
		return nil
	})

	// Peer-closed is evaluated after both hooks ran, so a final
	// readable event is delivered before teardown begins. A re-arm
	// failure counts as an irrecoverable peer-closed condition.
	peerClosed := sig.PeerClosed()
	if failure == nil && !peerClosed {
		if err := sub.EnableSignals(); err != nil {
			peerClosed = true
		}
	}

	h.mu.Lock()
	h.inHandler = false
	becamePeerClosed := peerClosed && !h.peerClosed
	if peerClosed {
		h.peerClosed = true
	}
	h.mu.Unlock()

	switch {
	case failure != nil:
		// Recoverable hook failure: force-close now, report once
		// teardown completes.
		done := h.Close(true)
		go func() {
			<-done.Done()
			h.notifyError(&api.DispatchError{Err: failure, Stack: stack})
		}()
	case becamePeerClosed:
		// Graceful end of session: close, then notify with a nil
		// error value ("closed due to peer", not a failure).
		done := h.Close(false)
		go func() {
			<-done.Done()
			h.notifyError(&api.DispatchError{})
		}()
	}
}
