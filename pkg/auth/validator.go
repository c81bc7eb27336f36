package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
)

// DefaultLifetime is how long a token stays valid after it was spawned.
const DefaultLifetime = 30 * time.Second

// Validator checks tokens against the issuer's public key. It is safe for
// concurrent use; handlers share one through their service value.
type Validator struct {
	key      *rsa.PublicKey
	lifetime time.Duration
	leeway   time.Duration
	now      func() time.Time
}

type Option func(*Validator)

// WithLifetime overrides DefaultLifetime.
func WithLifetime(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.lifetime = d
		}
	}
}

// WithLeeway tolerates tokens whose spawn time is up to d ahead of the local clock.
func WithLeeway(d time.Duration) Option {
	return func(v *Validator) {
		if d >= 0 {
			v.leeway = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

func NewValidator(key *rsa.PublicKey, opts ...Option) *Validator {
	v := &Validator{key: key, lifetime: DefaultLifetime, now: time.Now}
	for _, o := range opts {
		o(v)
	}
	return v
}

func (v *Validator) Lifetime() time.Duration { return v.lifetime }

// Validate verifies the signature, decodes the payload and checks its age.
func (v *Validator) Validate(token string) (Identity, error) {
	if v == nil || v.key == nil {
		return Identity{}, ErrNoKey
	}

	payload, sig, ok := strings.Cut(token, Separator)
	if !ok || payload == "" || sig == "" || strings.Contains(sig, Separator) {
		return Identity{}, ErrMalformedToken
	}

	rawSig, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: signature encoding: %v", ErrMalformedToken, err)
	}
	if err := jwt.SigningMethodRS256.Verify(payload, rawSig, v.key); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	var c Claims
	if err := json.Unmarshal(raw, &c); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	age := v.now().Sub(c.Spawned())
	if age < 0 {
		if -age > v.leeway {
			return Identity{}, ErrTokenFromFuture
		}
		age = 0
	}
	if age > v.lifetime {
		return Identity{}, fmt.Errorf("%w: age %s exceeds %s", ErrTokenExpired, age, v.lifetime)
	}

	return Identity{Name: c.UserName, Role: c.UserRole}, nil
}

// Authorize validates token and checks rule in one step. On failure it
// returns the status the handler should answer with.
func (v *Validator) Authorize(token core.Text, rule uint8) (Identity, core.Status, error) {
	tok, ok := token.Get()
	if !ok {
		return Identity{}, core.StatusUnauthorized, ErrMalformedToken
	}
	id, err := v.Validate(tok)
	if err != nil {
		return Identity{}, StatusFor(err), err
	}
	if !id.Allows(rule) {
		return id, core.StatusForbidden, fmt.Errorf("auth: role %08b does not satisfy rule %08b", id.Role, rule)
	}
	return id, core.StatusOK, nil
}
