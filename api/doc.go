// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package api defines the public contracts of hioload-pipe: the pipe
// endpoint abstraction, readiness signal bitmask, subscription service
// interfaces, event sink hooks, and structured error types.
package api
