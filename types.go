package memberauth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the claim facing attributes of a member.
type Identity interface {
	ID() string
	Email() string
	Nickname() string
	Role() string
}

// Config holds member auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	// GetAccessTokenTTL is the access token lifetime in minutes.
	GetAccessTokenTTL() int
	// GetRefreshTokenTTL is the refresh token lifetime in days.
	GetRefreshTokenTTL() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// Members is the narrow interface onto the external member store. The
// core reads members and triggers creation; everything else about the
// member record belongs to the owning service.
type Members interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	GetByNickname(ctx context.Context, nickname string) (*Member, error)
	Create(ctx context.Context, member *Member) (*Member, error)
}

// SocialAccounts stores provider identity links.
type SocialAccounts interface {
	FindByProviderID(ctx context.Context, provider, providerUserID string) (*SocialAccount, error)
	FindByMemberID(ctx context.Context, memberID uuid.UUID) ([]*SocialAccount, error)
	Create(ctx context.Context, account *SocialAccount) (*SocialAccount, error)
}

// RefreshTokens persists the single active refresh token per member.
// IssueFor must atomically supersede any prior token for the member.
type RefreshTokens interface {
	IssueFor(ctx context.Context, memberID uuid.UUID) (*RefreshToken, error)
	FindByMemberID(ctx context.Context, memberID uuid.UUID) (*RefreshToken, error)
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)
	RevokeForMember(ctx context.Context, memberID uuid.UUID) error
}

// TokenService mints and validates signed access tokens. Validation is
// a pure function of (token, key, clock) and never touches a store.
type TokenService interface {
	Generate(identity Identity) (string, error)
	Validate(tokenString string) (AccessClaims, error)
}

// SessionIssuer is the shared terminal step of every successful login,
// password or social: rotate the refresh token, mint an access token.
type SessionIssuer interface {
	IssueSession(ctx context.Context, member *Member) (*SessionPair, error)
}

// Authenticator handles password based logins.
type Authenticator interface {
	SessionIssuer
	Login(ctx context.Context, email, password string) (*SessionPair, error)
	Logout(ctx context.Context, memberID uuid.UUID) error
}

// SocialAuthenticator is implemented by the oauth package orchestrator.
// LoginOrRegister reports whether this login provisioned a new member.
type SocialAuthenticator interface {
	AuthCodeURL(provider, state string) (string, error)
	LoginOrRegister(ctx context.Context, provider, code string) (*SessionPair, bool, error)
}

// LoginPayload is the inbound credential payload accepted by the HTTP
// surface.
type LoginPayload interface {
	GetEmail() string
	GetPassword() string
}

// RepositoryManager aggregates the store collaborators behind a single
// transactional boundary.
type RepositoryManager interface {
	Members() Members
	SocialAccounts() SocialAccounts
	RefreshTokens() RefreshTokens
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
}

// NewDefaultLogger returns the stdout fallback logger used when no
// Logger is injected.
func NewDefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] MEMBERAUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] MEMBERAUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] MEMBERAUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
