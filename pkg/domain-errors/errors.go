// Package domainerrors defines coded errors that cross the service boundary.
//
// Services return these for rule violations (already registered, invalid code,
// missing document); handlers translate the code into an HTTP status. For
// infrastructure facts (record absent in a store) use pkg/platform/sentinel and
// translate at the service layer.
package domainerrors

import "net/http"

// Code classifies a domain error for transport mapping.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnavailable  Code = "unavailable"
	CodeInternal     Code = "internal"
)

// Error carries a code plus a human-readable message. The message is safe to
// return to callers; never put secrets in it.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds a coded domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Is reports whether err is a domain error carrying the given code.
func Is(err error, code Code) bool {
	de, ok := err.(*Error)
	return ok && de.Code == code
}

// CodeOf extracts the code from err, defaulting to CodeInternal for plain
// errors so infrastructure failures never leak details to callers.
func CodeOf(err error) Code {
	if de, ok := err.(*Error); ok {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
