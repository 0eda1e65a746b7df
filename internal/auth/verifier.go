package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tubestream/backend/internal/config"
)

var (
	// ErrInvalidToken indicates the bearer token failed signature or claim validation.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrMissingSubject indicates the token carries no subject claim.
	ErrMissingSubject = errors.New("token has no subject claim")
)

// Verifier validates bearer JWTs against the identity provider's JWKS.
type Verifier struct {
	keys     keyfunc.Keyfunc
	issuer   string
	audience string
}

// NewVerifier fetches the provider's JWKS and prepares claim validation for
// the configured issuer and audience.
func NewVerifier(ctx context.Context, cfg config.AuthConfig) (*Verifier, error) {
	issuer := strings.TrimSpace(cfg.IssuerURL)
	if issuer == "" {
		return nil, fmt.Errorf("auth verifier: issuer is required")
	}

	keys, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL(issuer)})
	if err != nil {
		return nil, fmt.Errorf("load jwks for %s: %w", issuer, err)
	}

	return &Verifier{
		keys:     keys,
		issuer:   issuer,
		audience: cfg.Audience,
	}, nil
}

// Verify parses and validates the raw token and returns the caller's principal.
func (v *Verifier) Verify(ctx context.Context, raw string) (Principal, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(raw, claims, v.keys.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Principal{}, ErrMissingSubject
	}

	return Principal{Sub: claims.Subject, Token: raw}, nil
}

func jwksURL(issuer string) string {
	return strings.TrimSuffix(issuer, "/") + "/.well-known/jwks.json"
}
