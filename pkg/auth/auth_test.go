package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

func signingKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = k
	})
	return testKey
}

func publicPEM(t *testing.T, k *rsa.PublicKey) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(k)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func issue(t *testing.T, name string, role uint8, spawned time.Time) string {
	t.Helper()
	tok, err := Issue(NewClaims(name, role, spawned), signingKey(t))
	require.NoError(t, err)
	return tok
}

func TestValidate_roundTrip(t *testing.T) {
	key := signingKey(t)
	v := NewValidator(&key.PublicKey, WithClock(fixedClock(epoch.Add(10*time.Second))))

	id, err := v.Validate(issue(t, "alice", RoleAdministrator, epoch))
	require.NoError(t, err)
	assert.Equal(t, Identity{Name: "alice", Role: RoleAdministrator}, id)
}

func TestValidate_wireShape(t *testing.T) {
	tok := issue(t, "bob", 5, epoch)

	payload, sig, ok := strings.Cut(tok, Separator)
	require.True(t, ok)
	assert.NotEmpty(t, sig)

	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_name":"bob","user_role":5,"date_spawn":1709294400000}`, string(raw))
}

func TestValidate_failures(t *testing.T) {
	key := signingKey(t)
	good := issue(t, "carol", RoleService, epoch)
	payload, sig, _ := strings.Cut(good, Separator)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	forged, err := Issue(NewClaims("carol", 0xff, epoch), other)
	require.NoError(t, err)

	tampered := base64.StdEncoding.EncodeToString([]byte(`{"user_name":"carol","user_role":255,"date_spawn":1709294400000}`))

	tests := []struct {
		name  string
		token string
		now   time.Time
		want  error
	}{
		{"no separator", payload + sig, epoch, ErrMalformedToken},
		{"empty", "", epoch, ErrMalformedToken},
		{"empty signature", payload + Separator, epoch, ErrMalformedToken},
		{"three parts", good + Separator + sig, epoch, ErrMalformedToken},
		{"signature not base64", payload + Separator + "!!!", epoch, ErrMalformedToken},
		{"wrong key", forged, epoch, ErrBadSignature},
		{"tampered payload", tampered + Separator + sig, epoch, ErrBadSignature},
		{"expired", good, epoch.Add(DefaultLifetime + time.Millisecond), ErrTokenExpired},
		{"from the future", good, epoch.Add(-time.Second), ErrTokenFromFuture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(&key.PublicKey, WithClock(fixedClock(tt.now)))
			_, err := v.Validate(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_badPayload(t *testing.T) {
	key := signingKey(t)
	v := NewValidator(&key.PublicKey, WithClock(fixedClock(epoch)))

	payload := base64.StdEncoding.EncodeToString([]byte("not json"))
	sig, err := signPayload(payload, key)
	require.NoError(t, err)

	_, err = v.Validate(payload + Separator + sig)
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestValidate_lifetimeBoundaryAndLeeway(t *testing.T) {
	key := signingKey(t)
	tok := issue(t, "dave", RoleService, epoch)

	v := NewValidator(&key.PublicKey, WithClock(fixedClock(epoch.Add(DefaultLifetime))))
	_, err := v.Validate(tok)
	assert.NoError(t, err, "age equal to lifetime is still valid")

	v = NewValidator(&key.PublicKey,
		WithLifetime(time.Minute),
		WithClock(fixedClock(epoch.Add(45*time.Second))),
	)
	_, err = v.Validate(tok)
	assert.NoError(t, err)

	v = NewValidator(&key.PublicKey,
		WithLeeway(2*time.Second),
		WithClock(fixedClock(epoch.Add(-time.Second))),
	)
	_, err = v.Validate(tok)
	assert.NoError(t, err)
}

func TestValidate_noKey(t *testing.T) {
	var v *Validator
	_, err := v.Validate("a@@b")
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, core.StatusOK, StatusFor(nil))
	assert.Equal(t, core.StatusAuthenticationTimeout, StatusFor(ErrTokenExpired))
	assert.Equal(t, core.StatusUnauthorized, StatusFor(ErrBadSignature))
	assert.Equal(t, core.StatusUnauthorized, StatusFor(ErrTokenFromFuture))
	assert.Equal(t, core.StatusUnauthorized, StatusFor(ErrMalformedToken))
}

func TestIdentity_Allows(t *testing.T) {
	admin := Identity{Role: RoleAdministrator}
	assert.True(t, admin.Allows(0b0000_0110))
	assert.False(t, admin.Allows(RoleService))
	assert.False(t, Identity{}.Allows(0xff))
	assert.True(t, Identity{Role: 0b0100_0000}.Allows(0b1100_0000))
}

func TestAuthorize(t *testing.T) {
	key := signingKey(t)
	v := NewValidator(&key.PublicKey, WithClock(fixedClock(epoch)))
	tok := issue(t, "erin", RoleService, epoch)

	id, status, err := v.Authorize(core.Some(tok), RoleService)
	require.NoError(t, err)
	assert.Equal(t, core.StatusOK, status)
	assert.Equal(t, "erin", id.Name)

	_, status, err = v.Authorize(core.Some(tok), RoleAdministrator)
	assert.Error(t, err)
	assert.Equal(t, core.StatusForbidden, status)

	_, status, _ = v.Authorize(core.None, RoleService)
	assert.Equal(t, core.StatusUnauthorized, status)

	late := NewValidator(&key.PublicKey, WithClock(fixedClock(epoch.Add(time.Hour))))
	_, status, _ = late.Authorize(core.Some(tok), RoleService)
	assert.Equal(t, core.StatusAuthenticationTimeout, status)
}

func TestLoadPublicKeyFile(t *testing.T) {
	key := signingKey(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "token.pub")
	require.NoError(t, os.WriteFile(path, publicPEM(t, &key.PublicKey), 0o600))

	got, err := LoadPublicKeyFile(path)
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(got))

	_, err = LoadPublicKeyFile(filepath.Join(dir, "missing.pub"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.pub")
	require.NoError(t, os.WriteFile(junk, []byte("nope"), 0o600))
	_, err = LoadPublicKeyFile(junk)
	assert.Error(t, err)
}

func TestLoadPrivateKeyFile(t *testing.T) {
	key := signingKey(t)
	path := filepath.Join(t.TempDir(), "token.pem")
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	got, err := LoadPrivateKeyFile(path)
	require.NoError(t, err)
	assert.True(t, key.Equal(got))

	_, err = LoadPrivateKeyFile(filepath.Join(t.TempDir(), "missing.pem"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
