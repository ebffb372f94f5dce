package memberauth

import (
	"context"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// AuthenticatedIdentity is the typed value the request middleware
// attaches to the processing context once a token resolves.
type AuthenticatedIdentity struct {
	MemberID string
	Email    string
	Role     MemberRole
}

// IdentityFromClaims builds the context value from validated claims
func IdentityFromClaims(claims AccessClaims) *AuthenticatedIdentity {
	if claims == nil {
		return nil
	}
	return &AuthenticatedIdentity{
		MemberID: claims.MemberID(),
		Email:    claims.Email(),
		Role:     claims.Role(),
	}
}

// WithIdentityContext sets the authenticated identity in the given context
func WithIdentityContext(ctx context.Context, identity *AuthenticatedIdentity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the identity in the context. It tolerates
// absence: an anonymous request yields (nil, false) and no error.
func IdentityFromContext(ctx context.Context) (*AuthenticatedIdentity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*AuthenticatedIdentity)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// RequireIdentity extracts the identity or fails with
// ErrIdentityNotFound for anonymous requests. Endpoint level
// authorization uses this where anonymous access is not allowed.
func RequireIdentity(ctx context.Context) (*AuthenticatedIdentity, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, ErrIdentityNotFound
	}
	return identity, nil
}
