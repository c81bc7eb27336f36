package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role bits. Bits 2-7 are free for application roles.
const (
	RoleService       uint8 = 1 << 0
	RoleAdministrator uint8 = 1 << 1
)

// Separator joins the payload and signature halves of a token.
const Separator = "@@"

// Claims is the JSON payload carried by a token.
type Claims struct {
	UserName  string `json:"user_name"`
	UserRole  uint8  `json:"user_role"`
	DateSpawn uint64 `json:"date_spawn"` // ms since epoch
}

// Spawned returns DateSpawn as a time.
func (c Claims) Spawned() time.Time { return time.UnixMilli(int64(c.DateSpawn)) }

// Identity is what a handler learns about the caller.
type Identity struct {
	Name string `json:"name"`
	Role uint8  `json:"role"`
}

// Allows reports whether any bit of rule is set in the caller's role. A rule
// for "administrator or first custom role" is 0b0000_0110.
func (id Identity) Allows(rule uint8) bool { return id.Role&rule != 0 }

// Issue signs claims with key and returns a token in wire form. The issuing
// service normally does this; it lives here for tools and tests.
func Issue(c Claims, key *rsa.PrivateKey) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	payload := base64.StdEncoding.EncodeToString(raw)
	sig, err := signPayload(payload, key)
	if err != nil {
		return "", err
	}
	return payload + Separator + sig, nil
}

// NewClaims stamps name and role with now.
func NewClaims(name string, role uint8, now time.Time) Claims {
	return Claims{UserName: name, UserRole: role, DateSpawn: uint64(now.UnixMilli())}
}

func signPayload(payload string, key *rsa.PrivateKey) (string, error) {
	sig, err := jwt.SigningMethodRS256.Sign(payload, key)
	if err != nil {
		return "", fmt.Errorf("auth: sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}
