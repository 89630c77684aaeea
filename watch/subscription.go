// File: watch/subscription.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-handle subscription state: subscribe/unsubscribe, one-shot
// re-arming, and the asynchronous shutdown handshake with the
// dispatch loop.

package watch

import (
	"sync"

	"github.com/momentics/hioload-pipe/api"
)

// subscription is the Service-backed api.Subscription.
type subscription struct {
	svc    *Service
	handle api.Handle

	mu         sync.Mutex
	cb         api.SignalFunc
	subscribed bool
	shutdown   bool
	released   bool
	done       chan struct{}
}

var _ api.Subscription = (*subscription)(nil)

// Subscribe registers the callback and starts observing the handle.
func (sub *subscription) Subscribe(cb api.SignalFunc) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.shutdown || sub.released {
		return api.ErrSubscriptionDead
	}
	if sub.subscribed {
		return api.NewError(api.ErrCodeMisuse, "subscription already subscribed").
			WithContext("handle", sub.handle)
	}
	if err := sub.svc.sig.Add(sub.handle); err != nil {
		return err
	}
	sub.cb = cb
	sub.subscribed = true
	return nil
}

// Unsubscribe halts observation; the subscription may be subscribed
// again afterwards.
func (sub *subscription) Unsubscribe() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.shutdown || sub.released {
		return api.ErrSubscriptionDead
	}
	if !sub.subscribed {
		return nil
	}
	sub.subscribed = false
	sub.cb = nil
	return sub.svc.sig.Remove(sub.handle)
}

// EnableSignals re-arms the one-shot watch for further readiness.
func (sub *subscription) EnableSignals() error {
	sub.mu.Lock()
	if sub.released || sub.shutdown {
		sub.mu.Unlock()
		return api.ErrSubscriptionDead
	}
	sub.mu.Unlock()
	return sub.svc.sig.Arm(sub.handle)
}

// Shutdown releases the subscription via the dispatch loop. Graceful
// shutdown (neither immediate nor local) flushes signals already
// queued for the handle; otherwise they are discarded and delivery
// stops at once. Repeated calls return the same completion.
func (sub *subscription) Shutdown(immediate, local bool) api.Completion {
	sub.mu.Lock()
	if sub.shutdown {
		done := sub.done
		sub.mu.Unlock()
		return api.Completion(done)
	}
	sub.shutdown = true
	sub.done = make(chan struct{})
	flush := !immediate && !local
	if !flush {
		sub.subscribed = false
		sub.cb = nil
	}
	req := &teardownReq{sub: sub, flush: flush, done: sub.done}
	sub.mu.Unlock()

	sub.svc.submitTeardown(req)
	return api.Completion(req.done)
}

// deliverable returns the callback when delivery is currently allowed.
func (sub *subscription) deliverable() api.SignalFunc {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.released || !sub.subscribed {
		return nil
	}
	return sub.cb
}

// markReleased flips the terminal flag; true on the first call.
func (sub *subscription) markReleased() bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.released {
		return false
	}
	sub.released = true
	sub.subscribed = false
	sub.cb = nil
	return true
}
