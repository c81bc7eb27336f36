package auth

import (
	"context"
	"crypto/rsa"
	"net/http"
	"time"

	manifest "github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideValidator builds the validator from the manifest. It returns nil when
// no key source is configured; handlers treat a nil validator as "auth off".
// A configured source that cannot produce a key fails startup.
func ProvideValidator(cfg manifest.Config, log *zap.Logger) (*Validator, error) {
	a := cfg.Auth
	if !a.Enabled() {
		log.Info("auth disabled")
		return nil, nil
	}

	var (
		key *rsa.PublicKey
		err error
	)
	if a.PublicKeyFile != "" {
		key, err = LoadPublicKeyFile(a.PublicKeyFile)
	} else {
		hc := &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
			Timeout: 8 * time.Second,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		key, err = FetchPublicKey(ctx, hc, a.IssuerURL, a.Login, a.Password)
	}
	if err != nil {
		return nil, err
	}

	v := NewValidator(key,
		WithLifetime(time.Duration(a.TokenLifetimeMS)*time.Millisecond),
		WithLeeway(time.Duration(a.FutureLeewayMS)*time.Millisecond),
	)
	log.Info("auth enabled",
		zap.String("publicKeyFile", a.PublicKeyFile),
		zap.String("issuerUrl", a.IssuerURL),
		zap.Duration("tokenLifetime", v.Lifetime()),
	)
	return v, nil
}

var Module = fx.Options(
	fx.Provide(ProvideValidator),
)
