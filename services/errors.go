package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Code is a machine-readable error code returned to API clients.
type Code string

const (
	CodeForbidden         Code = "FORBIDDEN"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeInvalidState      Code = "INVALID_STATE"
	CodeNotFound          Code = "NOT_FOUND"
	CodeQuotaExceeded     Code = "QUOTA_EXCEEDED"
	CodeConflict          Code = "CONFLICT"
	CodeTransient         Code = "TRANSIENT"
	CodeCorruptDocument   Code = "CORRUPT_DOCUMENT"
	CodeBadRequest        Code = "BAD_REQUEST"
	CodeUnknown           Code = "UNKNOWN"
)

// Error is a business or storage failure tagged with its code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on code so errors.Is(err, ErrForbidden) works for any forbidden error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrForbidden         = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrInvalidTransition = &Error{Code: CodeInvalidTransition, Message: "invalid status transition"}
	ErrInvalidState      = &Error{Code: CodeInvalidState, Message: "invalid state"}
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrQuotaExceeded     = &Error{Code: CodeQuotaExceeded, Message: "rectification quota exceeded"}
	ErrConflict          = &Error{Code: CodeConflict, Message: "concurrent update conflict"}
	ErrTransient         = &Error{Code: CodeTransient, Message: "storage temporarily unavailable"}
	ErrCorruptDocument   = &Error{Code: CodeCorruptDocument, Message: "stored document is corrupt"}
)

func newError(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the code of err, or CodeUnknown
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// storageError classifies a gorm failure. Record-not-found maps to ErrNotFound and
// everything else is transient: the caller may retry.
func storageError(err error, what string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(CodeNotFound, "%s not found", what)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: storage call timed out", ErrTransient, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrTransient, what, err)
}
