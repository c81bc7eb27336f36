package core

import "errors"

var (
	// Future resolution
	ErrHandlerPanic   = errors.New("deferred handler panicked")
	ErrFutureCanceled = errors.New("deferred result abandoned")
	ErrNilFuture      = errors.New("deferred outcome has no future")
	ErrUnsetOutcome   = errors.New("handler returned a zero outcome")

	// Registration
	ErrRegistryFrozen  = errors.New("registry is frozen: server already serving")
	ErrUnsupportedVerb = errors.New("unsupported verb")
	ErrEmptyName       = errors.New("function name is required")
	ErrNilHandler      = errors.New("handler is nil")
)

// Routing failures, all answered with StatusBadRequest.
var (
	ErrEmptyRequest   = errors.New("empty request")
	ErrBadRequestLine = errors.New("unparseable request")
	ErrBadPath        = errors.New("bad request path")
	ErrBodyRange      = errors.New("inconsistent body range")
	ErrBodyNotText    = errors.New("request body is not valid UTF-8")
)

// Server lifecycle
var (
	ErrBind         = errors.New("bind failed")
	ErrServerClosed = errors.New("dispatch: server closed")
)
