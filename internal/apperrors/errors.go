package apperrors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Error codes cover the full taxonomy the handlers map to HTTP statuses.
// Conflict deserves a note: a duplicate request/membership/like means the
// system is already in the state the caller asked for, so most write paths
// absorb it as success instead of surfacing it.
const (
	CodeInvalid         = "INVALID_ARGUMENT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTransient       = "TRANSIENT"
	CodeInternal        = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Invalid(message string) *AppError         { return New(CodeInvalid, message) }
func Unauthenticated(message string) *AppError { return New(CodeUnauthenticated, message) }
func Forbidden(message string) *AppError       { return New(CodeForbidden, message) }
func NotFound(message string) *AppError        { return New(CodeNotFound, message) }
func Conflict(message string) *AppError        { return New(CodeConflict, message) }

// ErrUnauthenticated is the sentinel for a missing viewer identity. It is
// fatal to any resolution and must force re-authentication, never a retry.
var ErrUnauthenticated = Unauthenticated("no authenticated viewer")

// CodeOf classifies any error into one of the taxonomy codes. Driver and
// context errors are folded in so repositories can return them raw.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	if errors.Is(err, sql.ErrNoRows) {
		return CodeNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CodeTransient
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return CodeConflict
		case "23503": // foreign_key_violation
			return CodeNotFound
		}
	}

	return CodeInternal
}

func IsConflict(err error) bool { return CodeOf(err) == CodeConflict }
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// HTTPStatus maps a classified error onto the wire status the SPA expects.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalid:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns a client-safe message for the error.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	switch CodeOf(err) {
	case CodeNotFound:
		return "not found"
	case CodeTransient:
		return "service temporarily unavailable"
	default:
		return "internal error"
	}
}
