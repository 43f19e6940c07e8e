package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

const defaultAudience = "authenticated"

var (
	ErrTokenMissing = errors.New("auth: access token missing")
	ErrTokenExpired = errors.New("auth: access token expired")
	ErrTokenInvalid = errors.New("auth: access token invalid")
)

// SupabaseVerifier validates HS256 access tokens issued by Supabase Auth.
type SupabaseVerifier struct {
	secret   []byte
	audience string
}

// NewSupabaseVerifier builds a verifier for tokens signed with the project JWT secret.
func NewSupabaseVerifier(secret, audience string) (*SupabaseVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: jwt secret is required")
	}
	audience = strings.TrimSpace(audience)
	if audience == "" {
		audience = defaultAudience
	}
	return &SupabaseVerifier{secret: []byte(secret), audience: audience}, nil
}

// Verify checks signature, expiry and audience and returns the token's identity.
func (v *SupabaseVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenMissing
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !claims.VerifyAudience(v.audience, true) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrTokenInvalid)
	}
	if _, ok := claims["exp"]; !ok {
		return nil, fmt.Errorf("%w: exp claim missing", ErrTokenInvalid)
	}

	identity := &Identity{
		Subject: claimAsString(claims, "sub"),
		Email:   claimAsString(claims, "email"),
		Role:    claimAsString(claims, "role"),
	}
	if identity.Subject == "" {
		return nil, fmt.Errorf("%w: sub claim missing", ErrTokenInvalid)
	}
	return identity, nil
}

func claimAsString(claims jwt.MapClaims, key string) string {
	if raw, ok := claims[key].(string); ok {
		return strings.TrimSpace(raw)
	}
	return ""
}
