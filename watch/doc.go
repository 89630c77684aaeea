// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package watch implements the signal-delivery service behind
// hioload-pipe handlers: a platform signaler (epoll on Linux) feeding a
// single serial dispatch loop. The loop guarantees in-order delivery
// with at most one in-flight dispatch per subscription and performs
// subscription teardown with flush-or-discard semantics.
package watch
