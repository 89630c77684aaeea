// File: dispatch/handler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// EventHandler lifecycle: binding protocol, subscribe/unsubscribe,
// unbind with endpoint hand-back, and idempotent asynchronous close.
// Signal dispatch itself lives in dispatch.go, the failure-isolation
// wrapper in isolate.go.

package dispatch

import (
	"sync"

	"github.com/momentics/hioload-pipe/api"
)

// state collapses the bound/open boolean flags into one lifecycle enum.
// The peer-closed flag persists independently of it.
type state int

const (
	stateUnbound state = iota
	stateBoundIdle
	stateBoundOpen
	stateClosed
)

// nopSink is the default sink when callers override only one hook side
// through adapters or pass nil at construction.
type nopSink struct{}

func (nopSink) HandleRead() error  { return nil }
func (nopSink) HandleWrite() error { return nil }

// EventHandler observes readiness signals on a bound pipe endpoint and
// invokes the sink hooks in response.
//
// The endpoint and subscription are exclusively owned by the handler;
// ownership returns to the caller only via Unbind. All lifecycle
// operations are safe for concurrent use, but signal dispatch itself is
// serial: the delivery service guarantees at most one in-flight
// dispatch per handler.
type EventHandler struct {
	mu         sync.Mutex
	st         state
	inHandler  bool
	peerClosed bool
	notified   bool

	sink       api.EventSink
	subscriber api.Subscriber
	onError    api.ErrorFunc

	endpoint     api.Endpoint
	subscription api.Subscription
}

// New creates an unbound handler. A nil sink leaves both hooks as
// no-ops; the subscriber provides subscriptions at bind time.
func New(sink api.EventSink, subscriber api.Subscriber) *EventHandler {
	if sink == nil {
		sink = nopSink{}
	}
	return &EventHandler{
		sink:       sink,
		subscriber: subscriber,
	}
}

// NewBound creates a handler already bound to ep. When autoBegin is
// set, event handling starts before the call returns.
func NewBound(sink api.EventSink, subscriber api.Subscriber, ep api.Endpoint, autoBegin bool) (*EventHandler, error) {
	h := New(sink, subscriber)
	if err := h.Bind(ep); err != nil {
		return nil, err
	}
	if autoBegin {
		if err := h.BeginHandlingEvents(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// NewBoundFromHandle is NewBound for a bare OS handle. The handle is
// wrapped in a non-owning api.RawEndpoint.
func NewBoundFromHandle(sink api.EventSink, subscriber api.Subscriber, raw api.Handle, autoBegin bool) (*EventHandler, error) {
	return NewBound(sink, subscriber, api.RawEndpoint(raw), autoBegin)
}

// OnError registers the terminal notification callback. It fires at
// most once per handler lifetime, after the handler finished closing:
// with a nil-error DispatchError for a peer-initiated close, or with
// the intercepted hook failure and its stack context otherwise.
func (h *EventHandler) OnError(fn api.ErrorFunc) {
	h.mu.Lock()
	h.onError = fn
	h.mu.Unlock()
}

// Bind attaches the handler to ep and constructs a fresh, not-yet-active
// subscription for its handle. Fails with ErrAlreadyBound when a bind is
// in effect. Binding does not start event delivery; see
// BeginHandlingEvents.
func (h *EventHandler) Bind(ep api.Endpoint) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.st == stateBoundIdle || h.st == stateBoundOpen {
		return api.ErrAlreadyBound
	}
	sub, err := h.subscriber.Watch(ep.Handle())
	if err != nil {
		return err
	}
	h.endpoint = ep
	h.subscription = sub
	h.st = stateBoundIdle
	h.inHandler = false
	h.peerClosed = false
	h.notified = false
	return nil
}

// BindHandle binds a bare OS handle without transferring ownership of
// its lifetime to the handler.
func (h *EventHandler) BindHandle(raw api.Handle) error {
	return h.Bind(api.RawEndpoint(raw))
}

// BeginHandlingEvents registers the dispatch callback with the delivery
// service and opens the handler for events. Fails when unbound or
// already open.
func (h *EventHandler) BeginHandlingEvents() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.st {
	case stateUnbound, stateClosed:
		return api.ErrNotBound
	case stateBoundOpen:
		return api.ErrAlreadyOpen
	}
	if err := h.subscription.Subscribe(h.dispatch); err != nil {
		return err
	}
	h.st = stateBoundOpen
	return nil
}

// EndHandlingEvents deregisters from the delivery service. Fails when
// unbound, not open, or invoked from inside a dispatch. On a failed
// deregistration the handler stays open, so the reported state never
// disagrees with what the delivery service still observes.
func (h *EventHandler) EndHandlingEvents() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inHandler {
		return api.ErrReentrantCall
	}
	switch h.st {
	case stateUnbound, stateClosed:
		return api.ErrNotBound
	case stateBoundIdle:
		return api.ErrNotOpen
	}
	if err := h.subscription.Unsubscribe(); err != nil {
		return err
	}
	h.st = stateBoundIdle
	return nil
}

// Unbind tears down the subscription and returns the endpoint to the
// caller for reuse or disposal. Open handlers are ended first. Fails
// when unbound or invoked from inside a dispatch.
func (h *EventHandler) Unbind() (api.Endpoint, error) {
	h.mu.Lock()
	if h.inHandler {
		h.mu.Unlock()
		return nil, api.ErrReentrantCall
	}
	switch h.st {
	case stateUnbound, stateClosed:
		h.mu.Unlock()
		return nil, api.ErrNotBound
	case stateBoundOpen:
		if err := h.subscription.Unsubscribe(); err != nil {
			h.mu.Unlock()
			return nil, err
		}
	}
	ep := h.endpoint
	sub := h.subscription
	local := h.peerClosed
	h.endpoint = nil
	h.subscription = nil
	h.st = stateUnbound
	h.mu.Unlock()

	// Wait for the delivery service to drop its handle references so
	// the caller gets exclusive use of the endpoint back.
	<-sub.Shutdown(true, local).Done()
	return ep, nil
}

// Close marks the handler closed immediately and tears the subscription
// down asynchronously, releasing the endpoint once teardown completes.
// The immediate hint asks the delivery service to drop pending signals
// instead of flushing them. Safe to call repeatedly; later calls
// resolve at once.
func (h *EventHandler) Close(immediate bool) api.Completion {
	h.mu.Lock()
	sub := h.subscription
	ep := h.endpoint
	local := h.peerClosed
	h.subscription = nil
	h.endpoint = nil
	if h.st != stateUnbound {
		h.st = stateClosed
	}
	h.mu.Unlock()

	if sub == nil && ep == nil {
		return api.ClosedCompletion()
	}

	out := make(chan struct{})
	go func() {
		defer close(out)
		if sub != nil {
			<-sub.Shutdown(immediate, local).Done()
		}
		if ep != nil {
			_ = ep.Close()
		}
	}()
	return api.Completion(out)
}

// IsBound reports whether an endpoint is attached.
func (h *EventHandler) IsBound() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.st == stateBoundIdle || h.st == stateBoundOpen
}

// IsOpen reports whether the handler is subscribed for events.
func (h *EventHandler) IsOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.st == stateBoundOpen
}

// InHandler reports whether a dispatch is executing right now.
func (h *EventHandler) InHandler() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inHandler
}

// PeerClosed reports whether the peer-closed condition has been
// observed. Once set it never reverts for the endpoint's lifetime.
func (h *EventHandler) PeerClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.peerClosed
}

// Endpoint returns the bound endpoint, or nil when unbound.
func (h *EventHandler) Endpoint() api.Endpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.endpoint
}

// notifyError delivers the terminal notification at most once per bind.
func (h *EventHandler) notifyError(de *api.DispatchError) {
	h.mu.Lock()
	fn := h.onError
	if h.notified || fn == nil {
		h.mu.Unlock()
		return
	}
	h.notified = true
	h.mu.Unlock()
	fn(de)
}
