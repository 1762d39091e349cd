package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
	ErrUpstream     = errors.New("upstream error")
)

// Stable API error codes returned to clients alongside the HTTP status.
// These mirror the contract the dashboard frontend depends on.
const (
	CodeRegistration     = "REGISTRATION_ERROR"
	CodeAuthentication   = "AUTHENTICATION_ERROR"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeMissingData      = "MISSING_DATA"
	CodeUpdateFailed     = "UPDATE_ERROR"
	CodeWorkerAgent      = "WORKER_AGENT_ERROR"
	CodeAnalysis         = "ANALYSIS_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is the typed error the service layer hands the HTTP boundary.
// Code is the machine-readable string clients switch on; Message is safe to
// show to end users.
type AppError struct {
	Err     error  // sentinel the error wraps
	Code    string // stable API code
	Message string // human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(code, resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    code,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func ValidationFailed(code, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    code,
		Message: message,
	}
}

func Conflict(code, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Code:    code,
		Message: message,
	}
}

// Unauthorized covers both bad credentials and missing/invalid sessions.
// Callers must not vary the message by cause: a login failure reads the
// same whether the username was unknown or the password wrong.
func Unauthorized(code, message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Code:    code,
		Message: message,
	}
}

// Unavailable indicates the upstream worker agent could not be reached at
// the transport level. HTTP handlers map this to 503.
func Unavailable(message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Code:    CodeWorkerAgent,
		Message: message,
	}
}

// Upstream indicates the worker agent responded with an error of its own.
// HTTP handlers map this to 500.
func Upstream(message string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Code:    CodeAnalysis,
		Message: message,
	}
}
