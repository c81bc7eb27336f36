package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	manifest "github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func issuerServer(t *testing.T, pemBytes []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Name, Password string }
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name != "svc" || in.Password != "secret" {
			http.Error(w, "denied", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "sess-1"})
	})
	mux.HandleFunc("POST /get_public_key", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Token string }
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Token != "sess-1" {
			http.Error(w, "denied", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"public_key": base64.StdEncoding.EncodeToString(pemBytes),
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPublicKey(t *testing.T) {
	key := signingKey(t)
	srv := issuerServer(t, publicPEM(t, &key.PublicKey))

	got, err := FetchPublicKey(context.Background(), srv.Client(), srv.URL+"/", "svc", "secret")
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(got))
}

func TestFetchPublicKey_loginRejected(t *testing.T) {
	key := signingKey(t)
	srv := issuerServer(t, publicPEM(t, &key.PublicKey))

	_, err := FetchPublicKey(context.Background(), srv.Client(), srv.URL, "svc", "wrong")
	assert.ErrorIs(t, err, ErrKeyFetch)
}

func TestFetchPublicKey_badKey(t *testing.T) {
	srv := issuerServer(t, []byte("not a pem block"))

	_, err := FetchPublicKey(context.Background(), srv.Client(), srv.URL, "svc", "secret")
	assert.ErrorIs(t, err, ErrKeyFetch)
}

func TestFetchPublicKey_canceled(t *testing.T) {
	key := signingKey(t)
	srv := issuerServer(t, publicPEM(t, &key.PublicKey))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FetchPublicKey(ctx, srv.Client(), srv.URL, "svc", "secret")
	assert.ErrorIs(t, err, ErrKeyFetch)
}

func TestProvideValidator(t *testing.T) {
	key := signingKey(t)
	log := zap.NewNop()

	cfg := manifest.Default()
	v, err := ProvideValidator(cfg, log)
	require.NoError(t, err)
	assert.Nil(t, v)

	path := filepath.Join(t.TempDir(), "token.pub")
	require.NoError(t, os.WriteFile(path, publicPEM(t, &key.PublicKey), 0o600))
	cfg.Auth.PublicKeyFile = path
	cfg.Auth.TokenLifetimeMS = 5000
	v, err = ProvideValidator(cfg, log)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 5*time.Second, v.Lifetime())

	srv := issuerServer(t, publicPEM(t, &key.PublicKey))
	cfg.Auth = manifest.Auth{IssuerURL: srv.URL, Login: "svc", Password: "secret", TokenLifetimeMS: 1000}
	v, err = ProvideValidator(cfg, log)
	require.NoError(t, err)
	require.NotNil(t, v)

	cfg.Auth = manifest.Auth{PublicKeyFile: filepath.Join(t.TempDir(), "missing.pub")}
	_, err = ProvideValidator(cfg, log)
	assert.Error(t, err)
}
