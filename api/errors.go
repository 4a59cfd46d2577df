// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error types and error handling utilities for rtaudio-host.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrInvalidConfig  = fmt.Errorf("invalid configuration value")
	ErrAlreadyStarted = fmt.Errorf("host already started")
	ErrNotStarted     = fmt.Errorf("host not started")
	ErrCallbackOwned  = fmt.Errorf("render callback already owned")
	ErrDriverRunning  = fmt.Errorf("operation not permitted while driver is running")
	ErrRenderFailed   = fmt.Errorf("render cycle failed")
	ErrPoolNotActive  = fmt.Errorf("worker pool not active")
	ErrThreadCreation = fmt.Errorf("thread creation failed")
	ErrNotSupported   = fmt.Errorf("operation not supported")
)

// ErrorCode classifies error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidConfig
	ErrCodeLifecycle
	ErrCodeRenderFailed
	ErrCodeThreadCreation
	ErrCodeNotSupported
	ErrCodeInternal
)

// Error is a structured error carrying a code and optional context.
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
