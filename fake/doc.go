// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package fake provides in-memory test doubles for the hioload-pipe
// contracts: a scripted endpoint and a manually driven subscription
// service for exercising the dispatch core without OS handles.
package fake
