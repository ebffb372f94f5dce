// Package identityware resolves an access token from the request into
// an authenticated identity. It never rejects a request: a missing or
// invalid token leaves the request anonymous and downstream
// authorization decides what anonymous access is allowed.
package identityware

import (
	"context"
	"strings"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-memberauth"
)

// DefaultCookieName is the cookie carrying the access token.
const DefaultCookieName = memberauth.AccessTokenCookieName

// DefaultTokenLookup checks the Authorization header before the access
// token cookie. Header over cookie is a security policy, not an
// implementation accident: a caller supplying an explicit Authorization
// header is trusted over ambient cookies. Do not reorder.
const DefaultTokenLookup = "header:" + router.HeaderAuthorization + ",cookie:" + DefaultCookieName

// DefaultContextKey is the router locals key the resolved claims are
// stored under.
const DefaultContextKey = "member"

// TokenValidator validates a raw token string into structured claims.
// This mirrors TokenService.Validate from the memberauth package.
type TokenValidator interface {
	Validate(tokenString string) (memberauth.AccessClaims, error)
}

// Config configures the identity resolver middleware.
type Config struct {
	// Filter skips the resolver entirely when it returns true.
	Filter func(router.Context) bool
	// TokenValidator is required.
	TokenValidator TokenValidator
	// ContextKey is the locals key for the resolved claims.
	ContextKey string
	// TokenLookup is a comma separated list of `source:name` entries,
	// resolved in order with first match winning. Supported sources:
	// header, cookie.
	TokenLookup string
	// AuthScheme is the expected header scheme, "Bearer" by default.
	AuthScheme string
	// ContextEnricher propagates the resolved claims into the standard
	// Go context. Defaults to attaching a memberauth identity value.
	ContextEnricher func(c context.Context, claims memberauth.AccessClaims) context.Context

	Logger memberauth.Logger
}

// New returns middleware that runs on every inbound request. On a valid
// token the claims populate the router locals and the request context;
// on any failure the request proceeds anonymous.
func New(config ...Config) router.MiddlewareFunc {
	cfg := withDefaults(config...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return hf(ctx)
			}

			raw := extractRawToken(ctx, cfg.extractors())
			if raw == "" {
				return hf(ctx)
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				cfg.Logger.Debug("identityware token rejected, proceeding anonymous: %v", err)
				return hf(ctx)
			}

			ctx.Locals(cfg.ContextKey, claims)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), claims))
			}

			return hf(ctx)
		}
	}
}

func withDefaults(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenValidator == nil {
		panic("MEMBERAUTH: identityware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = DefaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = func(c context.Context, claims memberauth.AccessClaims) context.Context {
			return memberauth.WithIdentityContext(c, memberauth.IdentityFromClaims(claims))
		}
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	return cfg
}

// TokenExtractor pulls a candidate token string out of the request.
type TokenExtractor func(c router.Context) string

func (cfg *Config) extractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// GetExtractors builds the extractor chain for a lookup definition,
// preserving the declared order.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:accessToken
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

func extractRawToken(ctx router.Context, extractors []TokenExtractor) string {
	for _, extractor := range extractors {
		if raw := extractor(ctx); raw != "" {
			return raw
		}
	}
	return ""
}

// tokenFromHeader returns an extractor reading `<scheme> <token>` from
// the named request header.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c router.Context) string {
		a := c.GetString(header, "")
		scheme := strings.TrimSpace(authScheme)
		l := len(scheme)
		if l == 0 || len(a) <= l+1 {
			return ""
		}
		if !strings.EqualFold(a[:l], scheme) {
			return ""
		}
		return strings.TrimSpace(a[l:])
	}
}

// tokenFromCookie returns an extractor reading the named cookie.
func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) string {
		return c.Cookies(name)
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
