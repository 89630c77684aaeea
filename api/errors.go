// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-pipe.

package api

import "fmt"

// API-misuse errors reported synchronously by lifecycle operations.
// They indicate a caller bug and are never retried.
var (
	ErrAlreadyBound  = fmt.Errorf("handler is already bound")
	ErrNotBound      = fmt.Errorf("handler is not bound")
	ErrAlreadyOpen   = fmt.Errorf("handler is already handling events")
	ErrNotOpen       = fmt.Errorf("handler is not handling events")
	ErrReentrantCall = fmt.Errorf("call is not allowed from inside a dispatch")
)

// Service-level errors.
var (
	ErrHandleWatched     = fmt.Errorf("handle already has a subscription")
	ErrSubscriptionDead  = fmt.Errorf("subscription has been released")
	ErrServiceStopped    = fmt.Errorf("signal service is stopped")
	ErrWouldBlock        = fmt.Errorf("operation would block")
	ErrEndpointClosed    = fmt.Errorf("endpoint is closed")
	ErrNotSupported      = fmt.Errorf("operation not supported")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrResourceExhausted = fmt.Errorf("resource exhausted")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeMisuse
	ErrCodeReentrant
	ErrCodeHandleWatched
	ErrCodeSubscriptionDead
	ErrCodeServiceStopped
	ErrCodeNotSupported
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
