package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	// AccessTokenCookie is the cookie the storefront's admin login stores the Supabase session in.
	AccessTokenCookie    = "sb-access-token"
	defaultVerifyTimeout = 5 * time.Second
)

// TokenVerifier verifies access tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// FailureHandler renders an authentication failure.
type FailureHandler func(w http.ResponseWriter, r *http.Request, err error)

// Authenticator wires token verification into HTTP middleware.
type Authenticator struct {
	verifier  TokenVerifier
	onFailure FailureHandler
	timeout   time.Duration
}

// Option customises Authenticator behaviour.
type Option func(*Authenticator)

// WithFailureHandler replaces the default JSON 401 response.
func WithFailureHandler(handler FailureHandler) Option {
	return func(a *Authenticator) {
		if handler != nil {
			a.onFailure = handler
		}
	}
}

func WithVerificationTimeout(d time.Duration) Option {
	return func(a *Authenticator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func NewAuthenticator(verifier TokenVerifier, opts ...Option) *Authenticator {
	a := &Authenticator{
		verifier:  verifier,
		onFailure: respondVerificationError,
		timeout:   defaultVerifyTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// RequireAuth verifies the bearer token, falling back to the session cookie,
// and stores the identity on the request context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := tokenFromRequest(r)
		if !ok {
			a.onFailure(w, r, ErrTokenMissing)
			return
		}
		if a.verifier == nil {
			a.onFailure(w, r, ErrTokenInvalid)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
		identity, err := a.verifier.Verify(ctx, token)
		cancel()
		if err != nil {
			a.onFailure(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if token, ok := extractBearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value, true
		}
	}
	return "", false
}

func extractBearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func respondAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   code,
		"message": message,
		"status":  status,
	})
}

func respondVerificationError(w http.ResponseWriter, _ *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTokenMissing):
		respondAuthError(w, http.StatusUnauthorized, "unauthenticated", "authorization header missing or invalid")
	case errors.Is(err, ErrTokenExpired):
		respondAuthError(w, http.StatusUnauthorized, "token_expired", "access token expired")
	default:
		respondAuthError(w, http.StatusUnauthorized, "invalid_token", "access token invalid")
	}
}
