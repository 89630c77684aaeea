// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package control provides runtime observability for hioload-pipe:
// a thread-safe metrics registry fed by the watch service and the
// adapters middleware.
package control
