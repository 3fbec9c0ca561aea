package domain

import (
	"errors"
	"strings"
)

// Error is a client-side failure with a stable code of the form
// AF-<AREA>-<NNNN>. Errors compare equal under errors.Is when their
// codes match, so a sentinel still matches after WithDetails or
// WithCause.
type Error struct {
	Code    string
	Message string
	// Details is an optional hint for the user.
	Details string
	Cause   error
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Error returns "message: details (code)".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	b.WriteString(" (")
	b.WriteString(e.Code)
	b.WriteString(")")
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithDetails returns a copy carrying details.
func (e *Error) WithDetails(details string) *Error {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	c := *e
	c.Cause = cause
	return &c
}

// Area returns the AREA part of the code, e.g. "SESS".
func (e *Error) Area() string {
	parts := strings.SplitN(e.Code, "-", 3)
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

// Code returns the code of the first *Error in err's chain, or "".
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ExitCode maps err to a process exit status: 0 for nil, 2 for session
// and route errors the user can fix by signing in or following a new
// link, 3 for invalid form input, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if !errors.As(err, &e) {
		return 1
	}
	switch {
	case e.Code == ErrFormInvalid.Code:
		return 3
	case e.Area() == "SESS", e.Area() == "ROUT":
		return 2
	default:
		return 1
	}
}

// Session errors.
var (
	ErrExpiryMissing    = newError("AF-SESS-4000", "session expiry missing")
	ErrExpiryMalformed  = newError("AF-SESS-4001", "malformed session expiry")
	ErrNotAuthenticated = newError("AF-SESS-4010", "not authenticated")
)

// Storage errors.
var (
	ErrStorageUnavailable = newError("AF-STOR-5000", "session storage unavailable")
	ErrStorageCorrupt     = newError("AF-STOR-5001", "persisted session unreadable")
)

// Form errors.
var (
	ErrSubmitInProgress = newError("AF-FORM-4090", "submit already in progress")
	ErrFormInvalid      = newError("AF-FORM-4220", "form has invalid fields")
)

// Response errors. A 2xx response with a missing field is unexpected;
// so is a 2xx status other than the one an endpoint must return.
var (
	ErrUnexpectedResponse = newError("AF-HTTP-5020", "unexpected response from server")
	ErrUnexpectedStatus   = newError("AF-HTTP-5021", "unexpected response status")
)

// Route errors.
var (
	ErrMissingToken = newError("AF-ROUT-4000", "missing token")
)
