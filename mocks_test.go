package memberauth_test

import (
	"context"

	"github.com/goliatone/go-memberauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIdentity implements memberauth.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Nickname() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements memberauth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockMembers implements memberauth.Members
type MockMembers struct {
	mock.Mock
}

func (m *MockMembers) GetByID(ctx context.Context, id uuid.UUID) (*memberauth.Member, error) {
	args := m.Called(ctx, id)
	member, _ := args.Get(0).(*memberauth.Member)
	return member, args.Error(1)
}

func (m *MockMembers) GetByEmail(ctx context.Context, email string) (*memberauth.Member, error) {
	args := m.Called(ctx, email)
	member, _ := args.Get(0).(*memberauth.Member)
	return member, args.Error(1)
}

func (m *MockMembers) GetByNickname(ctx context.Context, nickname string) (*memberauth.Member, error) {
	args := m.Called(ctx, nickname)
	member, _ := args.Get(0).(*memberauth.Member)
	return member, args.Error(1)
}

func (m *MockMembers) Create(ctx context.Context, member *memberauth.Member) (*memberauth.Member, error) {
	args := m.Called(ctx, member)
	created, _ := args.Get(0).(*memberauth.Member)
	return created, args.Error(1)
}

// MockRefreshTokens implements memberauth.RefreshTokens
type MockRefreshTokens struct {
	mock.Mock
}

func (m *MockRefreshTokens) IssueFor(ctx context.Context, memberID uuid.UUID) (*memberauth.RefreshToken, error) {
	args := m.Called(ctx, memberID)
	token, _ := args.Get(0).(*memberauth.RefreshToken)
	return token, args.Error(1)
}

func (m *MockRefreshTokens) FindByMemberID(ctx context.Context, memberID uuid.UUID) (*memberauth.RefreshToken, error) {
	args := m.Called(ctx, memberID)
	token, _ := args.Get(0).(*memberauth.RefreshToken)
	return token, args.Error(1)
}

func (m *MockRefreshTokens) FindByToken(ctx context.Context, token string) (*memberauth.RefreshToken, error) {
	args := m.Called(ctx, token)
	record, _ := args.Get(0).(*memberauth.RefreshToken)
	return record, args.Error(1)
}

func (m *MockRefreshTokens) RevokeForMember(ctx context.Context, memberID uuid.UUID) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

// MockAuther implements memberauth.Authenticator
type MockAuther struct {
	mock.Mock
}

func (m *MockAuther) Login(ctx context.Context, email, password string) (*memberauth.SessionPair, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*memberauth.SessionPair)
	return session, args.Error(1)
}

func (m *MockAuther) IssueSession(ctx context.Context, member *memberauth.Member) (*memberauth.SessionPair, error) {
	args := m.Called(ctx, member)
	session, _ := args.Get(0).(*memberauth.SessionPair)
	return session, args.Error(1)
}

func (m *MockAuther) Logout(ctx context.Context, memberID uuid.UUID) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

// MockSocial implements memberauth.SocialAuthenticator
type MockSocial struct {
	mock.Mock
}

func (m *MockSocial) AuthCodeURL(provider, state string) (string, error) {
	args := m.Called(provider, state)
	return args.String(0), args.Error(1)
}

func (m *MockSocial) LoginOrRegister(ctx context.Context, provider, code string) (*memberauth.SessionPair, bool, error) {
	args := m.Called(ctx, provider, code)
	session, _ := args.Get(0).(*memberauth.SessionPair)
	return session, args.Bool(1), args.Error(2)
}

// MockTokenService implements memberauth.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(identity memberauth.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (memberauth.AccessClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(memberauth.AccessClaims)
	return claims, args.Error(1)
}

type testConfig struct {
	signingKey      string
	accessTokenTTL  int
	refreshTokenTTL int
}

func (c testConfig) GetSigningKey() string {
	if c.signingKey == "" {
		return "test-signing-key"
	}
	return c.signingKey
}

func (c testConfig) GetSigningMethod() string { return "HS256" }
func (c testConfig) GetContextKey() string    { return "member" }

func (c testConfig) GetAccessTokenTTL() int {
	if c.accessTokenTTL == 0 {
		return 15
	}
	return c.accessTokenTTL
}

func (c testConfig) GetRefreshTokenTTL() int {
	if c.refreshTokenTTL == 0 {
		return 14
	}
	return c.refreshTokenTTL
}

func (c testConfig) GetTokenLookup() string { return "header:Authorization,cookie:accessToken" }
func (c testConfig) GetAuthScheme() string  { return "Bearer" }
func (c testConfig) GetIssuer() string      { return "test-issuer" }
func (c testConfig) GetAudience() []string  { return []string{"test-audience"} }
