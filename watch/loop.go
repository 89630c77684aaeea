// File: watch/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Serial dispatch loop. Signals and teardown requests merge into one
// FIFO so that teardown observes every signal enqueued before it:
// graceful teardown flushes those signals, immediate teardown discards
// them.

package watch

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-pipe/control"
)

// dispatchLoop consumes the inbox and control channels in arrival
// order. Pending work is staged in an unbounded FIFO so channel sends
// never block delivery ordering decisions.
func (s *Service) dispatchLoop() {
	pending := queue.New()

	for {
		select {
		case <-s.quitCh:
			s.drainOnQuit(pending)
			return
		default:
		}

		// Stage everything already available without blocking.
	Drain:
		for {
			select {
			case ev := <-s.inbox:
				pending.Add(ev)
			case req := <-s.ctrl:
				pending.Add(req)
			default:
				break Drain
			}
		}

		if pending.Length() == 0 {
			select {
			case <-s.quitCh:
				s.drainOnQuit(pending)
				return
			case ev := <-s.inbox:
				pending.Add(ev)
			case req := <-s.ctrl:
				pending.Add(req)
			}
			continue
		}

		switch it := pending.Remove().(type) {
		case signalEvent:
			s.deliver(it)
		case *teardownReq:
			s.finishTeardown(it, pending)
		}
	}
}

// teardownReq asks the dispatch loop to release one subscription. The
// completion may be resolved from more than one goroutine, so the
// close is once-guarded.
type teardownReq struct {
	sub      *subscription
	flush    bool // deliver the handle's pending signals before release
	done     chan struct{}
	resolved sync.Once
}

// submitTeardown hands a teardown to the dispatch loop, or completes
// it inline when the loop is not running.
func (s *Service) submitTeardown(req *teardownReq) {
	if !s.running.Load() {
		s.releaseNow(req)
		return
	}
	select {
	case s.ctrl <- req:
		// The send can land in the ctrl buffer after the exiting loop
		// has taken its last look at the channel. Watch for that from
		// the side so the completion always resolves.
		go func() {
			select {
			case <-req.done:
			case <-s.doneCh:
				s.releaseNow(req)
			}
		}()
	case <-s.quitCh:
		s.releaseNow(req)
	}
}

// finishTeardown flushes or discards the handle's queued signals, then
// releases the subscription.
func (s *Service) finishTeardown(req *teardownReq, pending *queue.Queue) {
	// Pull in signals still sitting in the inbox so the walk below
	// sees everything delivered before this point.
InboxDrain:
	for {
		select {
		case ev := <-s.inbox:
			pending.Add(ev)
		default:
			break InboxDrain
		}
	}

	// One full rotation of the FIFO: matching signals are flushed or
	// discarded, everything else keeps its relative order.
	for i := pending.Length(); i > 0; i-- {
		it := pending.Remove()
		ev, ok := it.(signalEvent)
		if !ok || ev.handle != req.sub.handle {
			pending.Add(it)
			continue
		}
		if req.flush {
			s.metrics.Add(control.MetricFlushed, 1)
			s.deliver(ev)
		} else {
			s.metrics.Add(control.MetricDiscarded, 1)
		}
	}

	s.releaseNow(req)
}

// releaseNow removes the subscription from the service and resolves
// the teardown completion. Safe to call from any goroutine, repeatedly.
func (s *Service) releaseNow(req *teardownReq) {
	sub := req.sub
	s.mu.Lock()
	if s.subs[sub.handle] == sub {
		delete(s.subs, sub.handle)
	}
	s.mu.Unlock()

	if sub.markReleased() {
		// The handle may already be gone (closed fd); removal failure
		// is irrelevant at this point.
		_ = s.sig.Remove(sub.handle)
		s.metrics.Add(control.MetricTeardowns, 1)
	}
	req.resolved.Do(func() { close(req.done) })
}

// drainOnQuit resolves outstanding teardowns so no Close waiter hangs
// across service shutdown. Pending signals are dropped.
func (s *Service) drainOnQuit(pending *queue.Queue) {
	for {
		select {
		case req := <-s.ctrl:
			s.releaseNow(req)
			continue
		default:
		}
		break
	}
	for pending.Length() > 0 {
		if req, ok := pending.Remove().(*teardownReq); ok {
			s.releaseNow(req)
		}
	}
}
