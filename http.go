package memberauth

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// AccessTokenCookieName is the cookie the HTTP surface stores the
// access token under. The middleware resolves the same cookie.
const AccessTokenCookieName = "accessToken"

// HTTPAuthenticator is the router facing login surface consumed by the
// auth controller.
type HTTPAuthenticator interface {
	Login(ctx router.Context, payload LoginPayload) (*SessionPair, error)
	Logout(ctx router.Context, memberID uuid.UUID) error
	ClearSession(ctx router.Context)
	SetSessionCookie(ctx router.Context, accessToken string)
}

type RouteAuthenticator struct {
	auth           Authenticator
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
	ErrorHandler   func(c router.Context, err error) error
}

var _ HTTPAuthenticator = (*RouteAuthenticator)(nil)

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	cookieDuration := 15 * time.Minute
	if cfg.GetAccessTokenTTL() > 0 {
		cookieDuration = time.Duration(cfg.GetAccessTokenTTL()) * time.Minute
	}

	a := &RouteAuthenticator{
		cfg:            cfg,
		auth:           auther,
		Logger:         defLogger{},
		cookieDuration: cookieDuration,
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// Login authenticates the payload credentials and stores the access
// token in the session cookie. The full session pair is returned so
// JSON clients can consume the refresh token from the body.
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) (*SessionPair, error) {
	session, err := a.auth.Login(ctx.Context(), payload.GetEmail(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return nil, err
	}

	a.SetSessionCookie(ctx, session.AccessToken)
	return session, nil
}

// Logout revokes the member's refresh token and clears the session
// cookie.
func (a *RouteAuthenticator) Logout(ctx router.Context, memberID uuid.UUID) error {
	if err := a.auth.Logout(ctx.Context(), memberID); err != nil {
		a.Logger.Error("Logout error: %s", err)
		return err
	}

	a.ClearSession(ctx)
	return nil
}

// ClearSession expires the access token cookie without touching the
// store.
func (a *RouteAuthenticator) ClearSession(ctx router.Context) {
	a.cookieDel(ctx, AccessTokenCookieName)
}

// SetSessionCookie stores an access token in the session cookie. Social
// logins reuse this after the oauth callback.
func (a *RouteAuthenticator) SetSessionCookie(ctx router.Context, accessToken string) {
	a.setCookieToken(ctx, accessToken, a.cookieDuration)
}

func (a *RouteAuthenticator) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     AccessTokenCookieName,
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Authentication error: %s category=%s details=%s",
		richErr.Message,
		richErr.Category,
		print.MaybePrettyJSON(richErr.Metadata),
	)

	return RenderAuthError(c, richErr)
}

// RenderAuthError writes a rich error as a JSON response, mapping the
// error category to an HTTP status.
func RenderAuthError(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := statusForCategory(richErr)

	return c.JSON(status, map[string]any{
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}

func statusForCategory(richErr *errors.Error) int {
	if richErr.Code > 0 {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryAuth:
		return 401
	case errors.CategoryAuthz:
		return 403
	case errors.CategoryNotFound:
		return 404
	case errors.CategoryBadInput, errors.CategoryValidation:
		return 400
	default:
		return 500
	}
}
