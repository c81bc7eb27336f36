// pkg/core/status.go
package core

import "strconv"

// Status is the closed set of response codes a dispatch can produce. The zero
// value is unset and renders as InternalServerError.
type Status int

const (
	StatusOK Status = iota + 1
	StatusBadRequest
	StatusForbidden
	StatusUnauthorized
	StatusAuthenticationTimeout
	StatusInternalServerError
	StatusNotFound
)

// Code returns the numeric status code written on the status line.
func (s Status) Code() int {
	switch s {
	case StatusOK:
		return 200
	case StatusBadRequest:
		return 400
	case StatusForbidden:
		return 403
	case StatusUnauthorized:
		return 401
	case StatusAuthenticationTimeout:
		return 419
	case StatusNotFound:
		return 404
	default:
		return 500
	}
}

// Reason is the reason phrase that follows the code on the status line.
func (s Status) Reason() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusForbidden:
		return "Forbidden"
	case StatusUnauthorized:
		return "Unauthorized"
	case StatusAuthenticationTimeout:
		return "Authentication Timeout"
	case StatusNotFound:
		return "Not Found"
	default:
		return "InternalServerError"
	}
}

// StatusLine renders e.g. "HTTP/1.1 404 Not Found".
func (s Status) StatusLine() string {
	return "HTTP/1.1 " + strconv.Itoa(s.Code()) + " " + s.Reason()
}

func (s Status) String() string { return s.Reason() }
