// File: api/subscription.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contracts for the external signal-delivery service: subscriptions,
// the subscriber factory, and the asynchronous teardown completion.

package api

// SignalFunc is the callback a subscription invokes for each delivered
// readiness signal. The delivery service guarantees serial, in-order
// invocation: no two calls for the same subscription overlap.
type SignalFunc func(Signal)

// Subscription represents one registration of a handle with the
// signal-delivery service. At most one subscription may exist per
// handle at a time; ownership is exclusive to a single handler.
type Subscription interface {
	// Subscribe registers the delivery callback and begins observation.
	Subscribe(cb SignalFunc) error

	// Unsubscribe halts signal observation. The subscription may be
	// re-subscribed afterwards.
	Unsubscribe() error

	// EnableSignals re-arms the subscription for further signals after
	// a delivery. A failure means the underlying handle is no longer
	// viable and must be treated as an irrecoverable peer-closed
	// condition by the caller.
	EnableSignals() error

	// Shutdown releases the subscription asynchronously and returns a
	// completion that resolves once the delivery service holds no more
	// references to the handle. The immediate hint requests dropping
	// any pending signals instead of flushing them; the local hint
	// tells the service the peer is already gone, so flushing is
	// pointless.
	Shutdown(immediate, local bool) Completion
}

// Subscriber constructs subscriptions. Implemented by watch.Service
// and by test doubles in package fake.
type Subscriber interface {
	// Watch creates a fresh, not-yet-active subscription for the
	// handle. Fails if the handle is already watched.
	Watch(h Handle) (Subscription, error)
}

// Completion is closed when an asynchronous teardown has finished.
type Completion <-chan struct{}

// Done returns the underlying channel for use in select loops.
func (c Completion) Done() <-chan struct{} { return c }

// ClosedCompletion returns an already-resolved completion.
func ClosedCompletion() Completion {
	ch := make(chan struct{})
	close(ch)
	return ch
}
