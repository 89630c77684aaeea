// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package adapters provides glue between plain functions and the
// api.EventSink contract, plus chainable sink middleware for logging
// and metrics.
package adapters
