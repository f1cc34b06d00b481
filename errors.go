package segsocial

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// EEXHAUSTED is internal to the caching layer: it marks the generator's
// prepared-context capability as unavailable for the account tier and is
// always recovered locally, never surfaced to callers of QueryService.
const (
	EINVALID   = "invalid"    // validation failed on caller input
	ENOTFOUND  = "not_found"  // entity does not exist
	EUPSTREAM  = "upstream"   // an external capability failed
	EEXHAUSTED = "exhausted"  // caching capability not entitled/available
	EINTERNAL  = "internal"   // internal error
)

// Error represents an application-specific error. Application errors can
// be unwrapped by the caller to extract the machine-readable code.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface. Not used by the application
// otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("segsocial error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
