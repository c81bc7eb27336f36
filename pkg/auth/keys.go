package auth

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// LoadPublicKeyFile reads a PEM encoded RSA public key.
func LoadPublicKeyFile(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("auth: read key %s: %w", path, err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(b)
	if err != nil {
		return nil, fmt.Errorf("auth: parse key %s: %w", path, err)
	}
	return key, nil
}

// LoadPrivateKeyFile reads a PEM encoded RSA private key, PKCS#1 or PKCS#8.
func LoadPrivateKeyFile(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("auth: read key %s: %w", path, err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(b)
	if err != nil {
		return nil, fmt.Errorf("auth: parse key %s: %w", path, err)
	}
	return key, nil
}

// FetchPublicKey logs in to the issuing service at base and asks it for the
// key tokens are signed with. The key arrives as base64 of a PEM block.
func FetchPublicKey(ctx context.Context, hc *http.Client, base, login, password string) (*rsa.PublicKey, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	base = strings.TrimRight(base, "/")

	var session struct {
		AccessToken string `json:"access_token"`
	}
	if err := postJSON(ctx, hc, base+"/login", map[string]string{
		"name":     login,
		"password": password,
	}, &session); err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response has no access_token", ErrKeyFetch)
	}

	var pub struct {
		PublicKey string `json:"public_key"`
	}
	if err := postJSON(ctx, hc, base+"/get_public_key", map[string]string{
		"token": session.AccessToken,
	}, &pub); err != nil {
		return nil, err
	}
	if pub.PublicKey == "" {
		return nil, fmt.Errorf("%w: response has no public_key", ErrKeyFetch)
	}
	pemBytes, err := base64.StdEncoding.DecodeString(pub.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: public_key encoding: %v", ErrKeyFetch, err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	return key, nil
}

func postJSON(ctx context.Context, hc *http.Client, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return fmt.Errorf("%w: %s: %s", ErrKeyFetch, url, res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrKeyFetch, url, err)
	}
	return nil
}
