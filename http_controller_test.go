package memberauth_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-memberauth"
)

func newTestController(t *testing.T, mockAuth *MockAuther, social *MockSocial) *memberauth.AuthController {
	t.Helper()

	httpAuth, err := memberauth.NewHTTPAuthenticator(mockAuth, testConfig{})
	require.NoError(t, err)

	opts := []memberauth.AuthControllerOption{
		memberauth.WithAuther(httpAuth),
	}
	if social != nil {
		opts = append(opts, memberauth.WithSocialAuthenticator(social))
	}

	return memberauth.NewAuthController(opts...)
}

func resolvedAccessClaims(t *testing.T, memberID uuid.UUID) memberauth.AccessClaims {
	t.Helper()

	identity := new(MockIdentity)
	identity.On("ID").Return(memberID.String())
	identity.On("Email").Return("member@example.com")
	identity.On("Nickname").Return("BraveFox1")
	identity.On("Role").Return(memberauth.RoleUser)

	svc := memberauth.NewTokenService([]byte("test-signing-key"), 15, "test-issuer", nil, nil)

	token, err := svc.Generate(identity)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	return claims
}

func TestNewAuthController_RequiresAuther(t *testing.T) {
	assert.Panics(t, func() {
		memberauth.NewAuthController()
	})
}

func TestAuthController_LoginPost(t *testing.T) {
	t.Run("valid credentials return the session pair", func(t *testing.T) {
		memberID := uuid.New()
		session := newSessionPair(memberID)

		mockAuth := new(MockAuther)
		mockAuth.On("Login", mock.Anything, "member@example.com", "password123").Return(session, nil)

		var gotStatus int
		var gotBody any
		var stored *router.Cookie

		ctx := router.NewMockContext()
		ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
			payload := args.Get(0).(*memberauth.LoginRequest)
			payload.Email = "member@example.com"
			payload.Password = "password123"
		}).Return(nil)
		ctx.On("Context").Return(context.Background())
		ctx.On("Cookie", mock.Anything).Run(func(args mock.Arguments) {
			stored, _ = args.Get(0).(*router.Cookie)
		}).Return()
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			gotStatus = args.Int(0)
			gotBody = args.Get(1)
		}).Return(nil)

		controller := newTestController(t, mockAuth, nil)

		require.NoError(t, controller.LoginPost(ctx))
		assert.Equal(t, fiber.StatusOK, gotStatus)

		response, ok := gotBody.(memberauth.SessionResponse)
		require.True(t, ok)
		assert.Equal(t, session.AccessToken, response.AccessToken)
		assert.Equal(t, session.RefreshToken, response.RefreshToken)
		assert.False(t, response.IsFirstLogin)

		require.NotNil(t, stored)
		assert.Equal(t, memberauth.AccessTokenCookieName, stored.Name)
		assert.Equal(t, session.AccessToken, stored.Value)

		mockAuth.AssertExpectations(t)
	})

	t.Run("invalid payload is rejected before authentication", func(t *testing.T) {
		mockAuth := new(MockAuther)

		var gotStatus int

		ctx := router.NewMockContext()
		ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
			payload := args.Get(0).(*memberauth.LoginRequest)
			payload.Email = "not-an-email"
			payload.Password = "password123"
		}).Return(nil)
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			gotStatus = args.Int(0)
		}).Return(nil)

		controller := newTestController(t, mockAuth, nil)

		require.NoError(t, controller.LoginPost(ctx))
		assert.Equal(t, fiber.StatusBadRequest, gotStatus)
		mockAuth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unparseable body is rejected", func(t *testing.T) {
		mockAuth := new(MockAuther)

		var gotStatus int

		ctx := router.NewMockContext()
		ctx.On("Bind", mock.Anything).Return(errors.New("malformed body", errors.CategoryBadInput))
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			gotStatus = args.Int(0)
		}).Return(nil)

		controller := newTestController(t, mockAuth, nil)

		require.NoError(t, controller.LoginPost(ctx))
		assert.Equal(t, fiber.StatusBadRequest, gotStatus)
	})

	t.Run("failed login renders unauthorized", func(t *testing.T) {
		mockAuth := new(MockAuther)
		mockAuth.On("Login", mock.Anything, "member@example.com", "wrongpass").
			Return(nil, memberauth.ErrInvalidCredentials)

		var gotStatus int

		ctx := router.NewMockContext()
		ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
			payload := args.Get(0).(*memberauth.LoginRequest)
			payload.Email = "member@example.com"
			payload.Password = "wrongpass"
		}).Return(nil)
		ctx.On("Context").Return(context.Background())
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			gotStatus = args.Int(0)
		}).Return(nil)

		controller := newTestController(t, mockAuth, nil)

		require.NoError(t, controller.LoginPost(ctx))
		assert.Equal(t, fiber.StatusUnauthorized, gotStatus)
		ctx.AssertNotCalled(t, "Cookie", mock.Anything)
	})
}

func TestAuthController_LogoutPost(t *testing.T) {
	t.Run("authenticated logout revokes and clears the cookie", func(t *testing.T) {
		memberID := uuid.New()
		claims := resolvedAccessClaims(t, memberID)

		mockAuth := new(MockAuther)
		mockAuth.On("Logout", mock.Anything, memberID).Return(nil)

		var stored *router.Cookie
		var gotStatus int

		ctx := router.NewMockContext()
		ctx.On("Locals", "member").Return(claims)
		ctx.On("Context").Return(context.Background())
		ctx.On("Cookie", mock.Anything).Run(func(args mock.Arguments) {
			stored, _ = args.Get(0).(*router.Cookie)
		}).Return()
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			gotStatus = args.Int(0)
		}).Return(nil)

		controller := newTestController(t, mockAuth, nil)

		require.NoError(t, controller.LogoutPost(ctx))
		assert.Equal(t, fiber.StatusOK, gotStatus)

		require.NotNil(t, stored)
		assert.Equal(t, memberauth.AccessTokenCookieName, stored.Name)
		assert.Empty(t, stored.Value)
		assert.True(t, stored.Expires.Before(time.Now()))

		mockAuth.AssertExpectations(t)
	})

	t.Run("anonymous logout still clears the cookie", func(t *testing.T) {
		mockAuth := new(MockAuther)

		var stored *router.Cookie
		var gotStatus int

		ctx := router.NewMockContext()
		ctx.On("Locals", "member").Return(nil)
		ctx.On("Cookie", mock.Anything).Run(func(args mock.Arguments) {
			stored, _ = args.Get(0).(*router.Cookie)
		}).Return()
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			gotStatus = args.Int(0)
		}).Return(nil)

		controller := newTestController(t, mockAuth, nil)

		require.NoError(t, controller.LogoutPost(ctx))
		assert.Equal(t, fiber.StatusOK, gotStatus)
		require.NotNil(t, stored)
		assert.Empty(t, stored.Value)
		mockAuth.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})
}

func TestAuthController_SocialBegin(t *testing.T) {
	t.Run("redirects to consent with a bounded state cookie", func(t *testing.T) {
		var issuedState string

		social := new(MockSocial)
		social.On("AuthCodeURL", "google", mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
			issuedState = args.String(1)
		}).Return("https://provider.example/consent", nil)

		var stored *router.Cookie

		ctx := router.NewMockContext()
		ctx.ParamsM["provider"] = "google"
		ctx.On("Param", "provider").Return("google")
		ctx.On("Cookie", mock.Anything).Run(func(args mock.Arguments) {
			stored, _ = args.Get(0).(*router.Cookie)
		}).Return()
		ctx.On("Redirect", "https://provider.example/consent", []int{fiber.StatusTemporaryRedirect}).Return(nil)

		controller := newTestController(t, new(MockAuther), social)

		require.NoError(t, controller.SocialBegin(ctx))

		require.NotNil(t, stored)
		assert.Equal(t, "oauthState", stored.Name)
		assert.NotEmpty(t, stored.Value)
		assert.Equal(t, issuedState, stored.Value)
		assert.True(t, stored.HTTPOnly)
		assert.True(t, stored.Expires.After(time.Now()))
		assert.True(t, stored.Expires.Before(time.Now().Add(time.Hour)))

		social.AssertExpectations(t)
	})

	t.Run("unknown provider renders the error", func(t *testing.T) {
		social := new(MockSocial)
		social.On("AuthCodeURL", "unknown", mock.AnythingOfType("string")).
			Return("", errors.New("unknown oauth provider", errors.CategoryNotFound).WithCode(errors.CodeNotFound))

		var gotStatus int

		ctx := router.NewMockContext()
		ctx.ParamsM["provider"] = "unknown"
		ctx.On("Param", "provider").Return("unknown")
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			gotStatus = args.Int(0)
		}).Return(nil)

		controller := newTestController(t, new(MockAuther), social)

		require.NoError(t, controller.SocialBegin(ctx))
		assert.Equal(t, fiber.StatusNotFound, gotStatus)
		ctx.AssertNotCalled(t, "Cookie", mock.Anything)
	})
}

func TestAuthController_SocialCallback(t *testing.T) {
	type callbackCapture struct {
		cookies []*router.Cookie
		status  int
		body    any
	}

	newCallbackContext := func(code, state, cookieState string) (*router.MockContext, *callbackCapture) {
		ctx := router.NewMockContext()
		ctx.ParamsM["provider"] = "google"
		ctx.QueriesM["code"] = code
		ctx.QueriesM["state"] = state

		ctx.On("Param", "provider").Return("google")
		ctx.On("Query", "code").Return(code).Maybe()
		ctx.On("Query", "state").Return(state).Maybe()
		ctx.On("Query", "error").Return("").Maybe()
		ctx.On("Query", "error_description").Return("").Maybe()
		ctx.On("Cookies", "oauthState").Return(cookieState).Maybe()
		ctx.On("Context").Return(context.Background()).Maybe()

		captured := &callbackCapture{}
		ctx.On("Cookie", mock.Anything).Run(func(args mock.Arguments) {
			if c, ok := args.Get(0).(*router.Cookie); ok {
				captured.cookies = append(captured.cookies, c)
			}
		}).Return()
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			captured.status = args.Int(0)
			captured.body = args.Get(1)
		}).Return(nil).Maybe()

		return ctx, captured
	}

	findCookie := func(cookies []*router.Cookie, name string) *router.Cookie {
		for _, c := range cookies {
			if c.Name == name {
				return c
			}
		}
		return nil
	}

	t.Run("valid callback issues the session and consumes the state", func(t *testing.T) {
		memberID := uuid.New()
		session := newSessionPair(memberID)

		social := new(MockSocial)
		social.On("LoginOrRegister", mock.Anything, "google", "auth-code").Return(session, true, nil)

		ctx, captured := newCallbackContext("auth-code", "state-123", "state-123")

		controller := newTestController(t, new(MockAuther), social)

		require.NoError(t, controller.SocialCallback(ctx))
		assert.Equal(t, fiber.StatusOK, captured.status)

		response, ok := captured.body.(memberauth.SessionResponse)
		require.True(t, ok)
		assert.True(t, response.IsFirstLogin)
		assert.Equal(t, session.AccessToken, response.AccessToken)

		stateCookie := findCookie(captured.cookies, "oauthState")
		require.NotNil(t, stateCookie)
		assert.Empty(t, stateCookie.Value)
		assert.True(t, stateCookie.Expires.Before(time.Now()))

		accessCookie := findCookie(captured.cookies, memberauth.AccessTokenCookieName)
		require.NotNil(t, accessCookie)
		assert.Equal(t, session.AccessToken, accessCookie.Value)

		social.AssertExpectations(t)
	})

	t.Run("mismatched state is rejected and still consumed", func(t *testing.T) {
		social := new(MockSocial)

		ctx, captured := newCallbackContext("auth-code", "state-123", "state-other")

		controller := newTestController(t, new(MockAuther), social)

		require.NoError(t, controller.SocialCallback(ctx))
		assert.Equal(t, fiber.StatusBadRequest, captured.status)
		social.AssertNotCalled(t, "LoginOrRegister", mock.Anything, mock.Anything, mock.Anything)

		stateCookie := findCookie(captured.cookies, "oauthState")
		require.NotNil(t, stateCookie)
		assert.Empty(t, stateCookie.Value)
		assert.True(t, stateCookie.Expires.Before(time.Now()))
	})

	t.Run("missing state cookie is rejected", func(t *testing.T) {
		social := new(MockSocial)

		ctx, captured := newCallbackContext("auth-code", "state-123", "")

		controller := newTestController(t, new(MockAuther), social)

		require.NoError(t, controller.SocialCallback(ctx))
		assert.Equal(t, fiber.StatusBadRequest, captured.status)
		social.AssertNotCalled(t, "LoginOrRegister", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("provider error parameter is rejected", func(t *testing.T) {
		social := new(MockSocial)

		ctx := router.NewMockContext()
		ctx.ParamsM["provider"] = "google"
		ctx.QueriesM["error"] = "access_denied"

		var gotStatus int

		ctx.On("Param", "provider").Return("google")
		ctx.On("Query", "code").Return("").Maybe()
		ctx.On("Query", "state").Return("").Maybe()
		ctx.On("Query", "error").Return("access_denied")
		ctx.On("Query", "error_description").Return("member declined").Maybe()
		ctx.On("Cookies", "oauthState").Return("state-123").Maybe()
		ctx.On("Cookie", mock.Anything).Return()
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			gotStatus = args.Int(0)
		}).Return(nil)

		controller := newTestController(t, new(MockAuther), social)

		require.NoError(t, controller.SocialCallback(ctx))
		assert.Equal(t, fiber.StatusUnauthorized, gotStatus)
		social.AssertNotCalled(t, "LoginOrRegister", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("orchestrator failure renders the error without a session cookie", func(t *testing.T) {
		social := new(MockSocial)
		social.On("LoginOrRegister", mock.Anything, "google", "auth-code").
			Return(nil, false, errors.New("social authentication failed", errors.CategoryAuth).WithCode(errors.CodeUnauthorized))

		ctx, captured := newCallbackContext("auth-code", "state-123", "state-123")

		controller := newTestController(t, new(MockAuther), social)

		require.NoError(t, controller.SocialCallback(ctx))
		assert.Equal(t, fiber.StatusUnauthorized, captured.status)

		accessCookie := findCookie(captured.cookies, memberauth.AccessTokenCookieName)
		assert.Nil(t, accessCookie)

		social.AssertExpectations(t)
	})
}
