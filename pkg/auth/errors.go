package auth

import (
	"errors"

	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
)

var (
	ErrMalformedToken  = errors.New("auth: malformed token")
	ErrBadSignature    = errors.New("auth: bad signature")
	ErrBadPayload      = errors.New("auth: bad payload")
	ErrTokenExpired    = errors.New("auth: token expired")
	ErrTokenFromFuture = errors.New("auth: token spawned in the future")
	ErrNoKey           = errors.New("auth: public key not configured")
	ErrKeyFetch        = errors.New("auth: public key fetch failed")
)

// StatusFor maps a validation failure to the status a handler should reply
// with. Expiry is reported separately so clients know to refresh.
func StatusFor(err error) core.Status {
	switch {
	case err == nil:
		return core.StatusOK
	case errors.Is(err, ErrTokenExpired):
		return core.StatusAuthenticationTimeout
	default:
		return core.StatusUnauthorized
	}
}
