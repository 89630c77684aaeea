// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync"

	"github.com/momentics/hioload-pipe/api"
)

var (
	_ api.Subscription = (*Subscription)(nil)
	_ api.Subscriber   = (*Subscriber)(nil)
)

// ShutdownCall records the hints passed to one Subscription.Shutdown.
type ShutdownCall struct {
	Immediate bool
	Local     bool
}

// Subscription is a manually driven api.Subscription. Tests call
// Deliver to invoke the registered callback synchronously, exactly the
// way the real delivery loop does.
type Subscription struct {
	mu sync.Mutex

	SubscribeErr   error
	UnsubscribeErr error
	ArmErr         error // returned by EnableSignals when set

	cb         api.SignalFunc
	subscribed bool
	released   bool

	armCalls  int
	Shutdowns []ShutdownCall
}

// Subscribe registers the delivery callback.
func (s *Subscription) Subscribe(cb api.SignalFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return api.ErrSubscriptionDead
	}
	if s.SubscribeErr != nil {
		return s.SubscribeErr
	}
	s.cb = cb
	s.subscribed = true
	return nil
}

// Unsubscribe halts delivery, unless scripted to fail.
func (s *Subscription) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UnsubscribeErr != nil {
		return s.UnsubscribeErr
	}
	s.subscribed = false
	return nil
}

// EnableSignals returns the scripted re-arm result.
func (s *Subscription) EnableSignals() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armCalls++
	if s.released {
		return api.ErrSubscriptionDead
	}
	return s.ArmErr
}

// Shutdown records the hints and resolves immediately.
func (s *Subscription) Shutdown(immediate, local bool) api.Completion {
	s.mu.Lock()
	s.Shutdowns = append(s.Shutdowns, ShutdownCall{Immediate: immediate, Local: local})
	s.released = true
	s.subscribed = false
	s.mu.Unlock()
	return api.ClosedCompletion()
}

// Deliver invokes the registered callback with sig, mimicking one
// serial dispatch from the delivery service. It is a no-op when the
// subscription is not subscribed.
func (s *Subscription) Deliver(sig api.Signal) {
	s.mu.Lock()
	cb := s.cb
	active := s.subscribed && !s.released
	s.mu.Unlock()
	if active && cb != nil {
		cb(sig)
	}
}

// Subscribed reports whether a callback is currently registered.
func (s *Subscription) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribed
}

// Released reports whether Shutdown has run.
func (s *Subscription) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// ArmCalls returns how many times EnableSignals was invoked.
func (s *Subscription) ArmCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armCalls
}

// Subscriber hands out fake subscriptions and remembers them by handle.
type Subscriber struct {
	mu       sync.Mutex
	WatchErr error
	subs     map[api.Handle]*Subscription
}

// NewSubscriber creates an empty fake subscriber.
func NewSubscriber() *Subscriber {
	return &Subscriber{subs: make(map[api.Handle]*Subscription)}
}

// Watch returns a fresh subscription for the handle.
func (f *Subscriber) Watch(h api.Handle) (api.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WatchErr != nil {
		return nil, f.WatchErr
	}
	sub := &Subscription{}
	f.subs[h] = sub
	return sub, nil
}

// Sub returns the last subscription created for the handle.
func (f *Subscriber) Sub(h api.Handle) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[h]
}
