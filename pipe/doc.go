// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package pipe implements the concrete message-pipe endpoint over an
// OS socketpair: non-blocking datagram-preserving byte I/O plus the
// handle accessor the dispatch core registers with the watch service.
package pipe
