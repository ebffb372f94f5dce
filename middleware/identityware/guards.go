package identityware

import (
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-memberauth"
)

// ClaimsFromRouterContext reads the claims the resolver stored in the
// router locals. ok is false for anonymous requests.
func ClaimsFromRouterContext(ctx router.Context, key string) (memberauth.AccessClaims, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(memberauth.AccessClaims)
	return claims, ok
}

// RequireAuthenticated rejects anonymous requests. The resolver itself
// never rejects; route this guard after it on endpoints that need an
// identity.
func RequireAuthenticated(contextKey string, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if _, ok := ClaimsFromRouterContext(ctx, contextKey); !ok {
				return errorHandler(ctx, memberauth.ErrIdentityNotFound)
			}
			return hf(ctx)
		}
	}
}

// RequireRole rejects requests whose resolved role is below minRole,
// anonymous requests included.
func RequireRole(contextKey string, minRole memberauth.MemberRole, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			claims, ok := ClaimsFromRouterContext(ctx, contextKey)
			if !ok {
				return errorHandler(ctx, memberauth.ErrIdentityNotFound)
			}
			if !claims.IsAtLeast(minRole) {
				return errorHandler(ctx, memberauth.ErrInsufficientRole)
			}
			return hf(ctx)
		}
	}
}
