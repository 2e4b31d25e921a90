package shared

import (
	"fmt"

	"github.com/samber/oops"
)

// Domain error codes
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// NewDomainError creates a new domain error using oops
func NewDomainError(code string, message string) error {
	return oops.
		Code(code).
		In("domain").
		With("error_code", code).
		Errorf("%s", message)
}

// NewDomainErrorf creates a new domain error with formatted message
func NewDomainErrorf(code string, format string, args ...any) error {
	return oops.
		Code(code).
		In("domain").
		With("error_code", code).
		Errorf(format, args...)
}

// WrapStorageError wraps a backend failure so callers can tell it apart from domain errors.
// The original error stays reachable through errors.Is / errors.As.
func WrapStorageError(err error, backend, operation string) error {
	if err == nil {
		return nil
	}
	return oops.
		Code(ErrCodeStorageUnavailable).
		In("storage").
		With("backend", backend).
		With("operation", operation).
		Wrapf(err, "%s %s failed", backend, operation)
}

// ErrorCode returns the oops code attached to err, or "" when there is none
func ErrorCode(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code := fmt.Sprint(oopsErr.Code())
	if code == "<nil>" {
		return ""
	}
	return code
}

// IsNotFound reports whether err carries the NOT_FOUND code
func IsNotFound(err error) bool {
	return ErrorCode(err) == ErrCodeNotFound
}

// Common domain error builders
func ErrInvalidInput(msg string) error {
	return NewDomainError(ErrCodeInvalidInput, msg)
}

func ErrNotFound(resource string) error {
	return NewDomainErrorf(ErrCodeNotFound, "%s not found", resource)
}
