// Package dispatch_test exercises signal dispatch semantics.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package dispatch_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-pipe/api"
	"github.com/momentics/hioload-pipe/dispatch"
	"github.com/momentics/hioload-pipe/fake"
)

// recordingSink captures hook invocation order and scripted outcomes.
type recordingSink struct {
	mu       sync.Mutex
	calls    []string
	readErr  error
	writeErr error
}

func (s *recordingSink) HandleRead() error {
	s.mu.Lock()
	s.calls = append(s.calls, "read")
	s.mu.Unlock()
	return s.readErr
}

func (s *recordingSink) HandleWrite() error {
	s.mu.Lock()
	s.calls = append(s.calls, "write")
	s.mu.Unlock()
	return s.writeErr
}

func (s *recordingSink) sequence() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// openHandler binds and opens a handler around the sink.
func openHandler(t *testing.T, sink api.EventSink) (*dispatch.EventHandler, *fake.Endpoint, *fake.Subscription) {
	t.Helper()
	ep := fake.NewEndpoint(7)
	subscriber := fake.NewSubscriber()
	h, err := dispatch.NewBound(sink, subscriber, ep, true)
	if err != nil {
		t.Fatalf("NewBound failed: %v", err)
	}
	return h, ep, subscriber.Sub(7)
}

func TestDispatch_ReadableOnly(t *testing.T) {
	sink := &recordingSink{}
	h, _, sub := openHandler(t, sink)

	sub.Deliver(api.SignalReadable)

	got := sink.sequence()
	if len(got) != 1 || got[0] != "read" {
		t.Errorf("expected exactly one read invocation, got %v", got)
	}
	if h.PeerClosed() {
		t.Errorf("readable-only event must not set peer-closed")
	}
	if !h.IsOpen() {
		t.Errorf("handler must stay open after a plain dispatch")
	}
	if sub.ArmCalls() != 1 {
		t.Errorf("dispatch must re-arm the subscription once, got %d", sub.ArmCalls())
	}
}

func TestDispatch_ReadBeforeWrite(t *testing.T) {
	sink := &recordingSink{}
	_, _, sub := openHandler(t, sink)

	sub.Deliver(api.SignalReadable | api.SignalWritable)

	got := sink.sequence()
	if len(got) != 2 || got[0] != "read" || got[1] != "write" {
		t.Errorf("expected read strictly before write, got %v", got)
	}
}

func TestDispatch_PeerClosedNotifiesNilError(t *testing.T) {
	notified := make(chan *api.DispatchError, 1)
	sink := &recordingSink{}
	h, ep, sub := openHandler(t, sink)
	h.OnError(func(de *api.DispatchError) { notified <- de })

	// A final readable is still delivered before teardown begins.
	sub.Deliver(api.SignalReadable | api.SignalPeerClosed)

	if got := sink.sequence(); len(got) != 1 || got[0] != "read" {
		t.Errorf("final readable must be dispatched before teardown, got %v", got)
	}
	if !h.PeerClosed() {
		t.Errorf("expected PeerClosed true after peer-closed bit")
	}

	select {
	case de := <-notified:
		if !de.PeerClosed() || de.Err != nil {
			t.Errorf("peer-closed notification must carry a nil error, got %v", de.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for peer-closed notification")
	}

	if h.IsBound() {
		t.Errorf("handler must be closed after peer-closed")
	}
	if ep.CloseCount() != 1 {
		t.Errorf("endpoint must be released exactly once, got %d", ep.CloseCount())
	}
	if n := len(sub.Shutdowns); n != 1 {
		t.Fatalf("expected one subscription shutdown, got %d", n)
	}
	if sub.Shutdowns[0].Immediate {
		t.Errorf("peer-closed close must not be immediate")
	}
	if !sub.Shutdowns[0].Local {
		t.Errorf("peer-closed close must pass the local hint")
	}
}

func TestDispatch_PeerClosedIsSticky(t *testing.T) {
	sink := &recordingSink{}
	h, _, sub := openHandler(t, sink)

	sub.Deliver(api.SignalPeerClosed)
	if !h.PeerClosed() {
		t.Fatalf("expected PeerClosed true")
	}

	// Later events are dropped on the closed handler and can never
	// flip the flag back.
	sub.Deliver(api.SignalReadable)
	sub.Deliver(api.SignalWritable)
	if !h.PeerClosed() {
		t.Errorf("PeerClosed must never revert to false")
	}
	if got := sink.sequence(); len(got) != 0 {
		t.Errorf("events after logical close must be dropped, got %v", got)
	}
}

func TestDispatch_RearmFailureBecomesPeerClosed(t *testing.T) {
	notified := make(chan *api.DispatchError, 1)
	sink := &recordingSink{}
	h, _, sub := openHandler(t, sink)
	sub.ArmErr = fmt.Errorf("stale handle")
	h.OnError(func(de *api.DispatchError) { notified <- de })

	sub.Deliver(api.SignalReadable)

	if !h.PeerClosed() {
		t.Errorf("re-arm failure must be treated as peer-closed")
	}
	select {
	case de := <-notified:
		if de.Err != nil {
			t.Errorf("re-arm failure reports as peer-closed, got error %v", de.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for notification")
	}
}

func TestDispatch_HookErrorForceClosesAndReports(t *testing.T) {
	decodeErr := fmt.Errorf("malformed message header")
	notified := make(chan *api.DispatchError, 1)
	sink := &recordingSink{readErr: decodeErr}
	h, ep, sub := openHandler(t, sink)
	h.OnError(func(de *api.DispatchError) { notified <- de })

	sub.Deliver(api.SignalReadable)

	select {
	case de := <-notified:
		if !errors.Is(de.Err, decodeErr) {
			t.Errorf("notification must carry the original failure, got %v", de.Err)
		}
		if len(de.Stack) == 0 {
			t.Errorf("notification must carry captured stack context")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for failure notification")
	}

	if h.IsBound() {
		t.Errorf("handler must be closed after an intercepted failure")
	}
	if ep.CloseCount() != 1 {
		t.Errorf("endpoint must be released, got %d closes", ep.CloseCount())
	}
	if n := len(sub.Shutdowns); n != 1 || !sub.Shutdowns[0].Immediate {
		t.Errorf("intercepted failure must close immediately, got %+v", sub.Shutdowns)
	}
}

func TestDispatch_HookPanicIntercepted(t *testing.T) {
	notified := make(chan *api.DispatchError, 1)
	sink := hookSink{onRead: func() error {
		panic(fmt.Errorf("decode blew up"))
	}}
	h, _, sub := openHandler(t, sink)
	h.OnError(func(de *api.DispatchError) { notified <- de })

	sub.Deliver(api.SignalReadable)

	select {
	case de := <-notified:
		if de.Err == nil || de.Err.Error() != "decode blew up" {
			t.Errorf("expected intercepted panic value, got %v", de.Err)
		}
		if len(de.Stack) == 0 {
			t.Errorf("expected captured stack for intercepted panic")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for notification")
	}
	if h.IsBound() {
		t.Errorf("handler must be closed after intercepted panic")
	}
}

func TestDispatch_RuntimeDefectPropagates(t *testing.T) {
	sink := hookSink{onRead: func() error {
		var m map[string]int
		m["boom"] = 1 // nil-map write: runtime.Error
		return nil
	}}
	_, _, sub := openHandler(t, sink)

	defer func() {
		if recover() == nil {
			t.Errorf("runtime defects must propagate out of dispatch")
		}
	}()
	sub.Deliver(api.SignalReadable)
}

func TestDispatch_SingleTerminalNotification(t *testing.T) {
	notified := make(chan *api.DispatchError, 2)
	sink := &recordingSink{}
	h, _, sub := openHandler(t, sink)
	h.OnError(func(de *api.DispatchError) { notified <- de })

	sub.Deliver(api.SignalPeerClosed)

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for first notification")
	}

	// Further closes and deliveries must not produce a second one.
	<-h.Close(true).Done()
	sub.Deliver(api.SignalPeerClosed)
	select {
	case de := <-notified:
		t.Errorf("unexpected second notification: %+v", de)
	case <-time.After(100 * time.Millisecond):
	}
}
