// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package dispatch implements the readiness-driven event handler at the
// heart of hioload-pipe: a stateful wrapper that binds a pipe endpoint,
// subscribes to its readiness signals, and maps each delivered signal
// to user hooks under a strict lifecycle and reentrancy discipline.
package dispatch
