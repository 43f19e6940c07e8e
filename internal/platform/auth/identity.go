package auth

import (
	"context"
	"strings"
)

// Identity is the principal extracted from a verified Supabase access token.
// Role is the token's database role (usually "authenticated"); staff
// privileges are never read from the token and must be resolved from the
// team directory.
type Identity struct {
	Subject string
	Email   string
	Role    string
}

// NormalisedEmail returns the lower-cased, trimmed email used for directory lookups.
func (i *Identity) NormalisedEmail() string {
	if i == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(i.Email))
}

type contextKey string

const identityContextKey contextKey = "storefront/auth/identity"

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity stored by the authenticator.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
