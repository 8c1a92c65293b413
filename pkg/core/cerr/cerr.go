package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error wraps a causing error with the HTTP status code which should
// be reported for it. The wiki core signals its failure kinds with
// these instances: validation failures (400), missing identities
// (404), and pool exhaustion (503), while unexpected store faults are
// left as plain wrapped errors and reach callers as internal errors.
type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// BadRequest marks err as a validation failure. Attribute values which
// violate a store-level constraint are reported with this kind after
// their transaction is rolled back.
func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

// NotFound marks err as an unresolvable identity. This is a normal
// terminal outcome for read operations, not a fault.
func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// ResourceExhausted marks err as a pool exhaustion condition: no
// connection slot became free within the configured wait bound.
// Callers must not retry silently; surfacing the condition is the
// whole point of the bounded wait.
func ResourceExhausted(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusServiceUnavailable}
}

// IsKind reports whether err carries the given HTTP status code as a
// *cerr.Error somewhere in its chain.
func IsKind(err error, statusCode int) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.HTTPStatusCode == statusCode
}
