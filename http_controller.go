package memberauth

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// oauthStateCookieName carries the anti forgery state value between the
// social redirect and the provider callback.
const oauthStateCookieName = "oauthState"

// oauthStateTTL bounds how long a pending consent redirect stays valid.
const oauthStateTTL = 10 * time.Minute

// RegisterAuthRoutes mounts the session endpoints on the router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("session.login")

	app.
		Post(controller.Routes.Logout, controller.LogoutPost).
		SetName("session.logout")

	if controller.Social != nil {
		app.
			Get(controller.Routes.SocialBegin, controller.SocialBegin).
			SetName("session.social")
		app.
			Get(controller.Routes.SocialCallback, controller.SocialCallback).
			SetName("session.social-callback")
	}
}

type AuthControllerRoutes struct {
	Login          string
	Logout         string
	SocialBegin    string
	SocialCallback string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Routes       *AuthControllerRoutes
	Auther       HTTPAuthenticator
	Social       SocialAuthenticator
	ContextKey   string
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: RenderAuthError,
		ContextKey:   "member",
		Routes: &AuthControllerRoutes{
			Login:          "/auth/login",
			Logout:         "/auth/logout",
			SocialBegin:    "/auth/:provider",
			SocialCallback: "/auth/:provider/callback",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	return c
}

// WithAuther sets the HTTP authenticator.
func WithAuther(auther HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithSocialAuthenticator enables the social login routes.
func WithSocialAuthenticator(social SocialAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Social = social
		return c
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// GetEmail returns the email
func (r LoginRequest) GetEmail() string {
	return r.Email
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// SessionResponse is the JSON body returned on a successful login.
type SessionResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Member       *MemberProfile `json:"member"`
	IsFirstLogin bool           `json:"is_first_login,omitempty"`
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	session, err := a.Auther.Login(ctx, payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Member:       session.Member,
	})
}

func (a *AuthController) LogoutPost(ctx router.Context) error {
	claims, ok := ctx.Locals(a.ContextKey).(AccessClaims)
	if !ok {
		a.Auther.ClearSession(ctx)
		return ctx.JSON(fiber.StatusOK, map[string]any{"success": true})
	}

	memberID, err := uuid.Parse(claims.MemberID())
	if err != nil {
		a.Auther.ClearSession(ctx)
		return ctx.JSON(fiber.StatusOK, map[string]any{"success": true})
	}

	if err := a.Auther.Logout(ctx, memberID); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{"success": true})
}

// SocialBegin redirects the client to the provider consent page. The
// anti forgery state round trips through a short lived cookie.
func (a *AuthController) SocialBegin(ctx router.Context) error {
	providerName := ctx.Param("provider")

	state, err := NewOpaqueToken()
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	target, err := a.Social.AuthCodeURL(providerName, state)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	ctx.Cookie(&router.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Expires:  time.Now().Add(oauthStateTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})

	return ctx.Redirect(target, fiber.StatusTemporaryRedirect)
}

// SocialCallback completes the provider flow and issues a session.
func (a *AuthController) SocialCallback(ctx router.Context) error {
	providerName := ctx.Param("provider")
	code := ctx.Query("code")
	state := ctx.Query("state")

	// The state value is single use: consume the cookie before any
	// branch so a replayed callback never finds it again.
	expectedState := ctx.Cookies(oauthStateCookieName)
	a.clearStateCookie(ctx)

	if errCode := ctx.Query("error"); errCode != "" {
		return a.ErrorHandler(ctx, errors.New("Provider rejected the authorization", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithMetadata(map[string]any{
				"provider":    providerName,
				"error":       errCode,
				"description": ctx.Query("error_description"),
			}))
	}

	if code == "" || state == "" || state != expectedState {
		return a.ErrorHandler(ctx, errors.New("Invalid authorization callback", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	session, isFirstLogin, err := a.Social.LoginOrRegister(ctx.Context(), providerName, code)
	if err != nil {
		a.Logger.Error("Social login error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	a.Auther.SetSessionCookie(ctx, session.AccessToken)

	return ctx.JSON(fiber.StatusOK, SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Member:       session.Member,
		IsFirstLogin: isFirstLogin,
	})
}

func (a *AuthController) clearStateCookie(ctx router.Context) {
	ctx.Cookie(&router.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
