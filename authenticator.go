package memberauth

import (
	"context"

	"github.com/google/uuid"
)

// Auther implements the Authenticator interface: password login plus
// the session issue step shared with the social login orchestrator.
type Auther struct {
	members       Members
	refreshTokens RefreshTokens
	tokenService  TokenService
	logger        Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(members Members, refreshTokens RefreshTokens, cfg Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetAccessTokenTTL(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	return &Auther{
		members:       members,
		refreshTokens: refreshTokens,
		tokenService:  tokenService,
		logger:        defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, mostly for tests or
// callers that share one instance with the request middleware.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login authenticates an email and password pair. Every failure mode,
// unknown email, social only account, or wrong password, returns the
// same ErrInvalidCredentials so callers cannot probe which field was
// wrong.
func (s *Auther) Login(ctx context.Context, email, password string) (*SessionPair, error) {
	member, err := s.members.GetByEmail(ctx, email)
	if err != nil || member == nil {
		s.logger.Debug("Login member lookup failed", "email", email, "error", err)
		return nil, ErrInvalidCredentials
	}

	if member.IsSocialOnly() {
		s.logger.Debug("Login rejected social only account", "member_id", member.ID)
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, member.PasswordHash); err != nil {
		s.logger.Debug("Login password mismatch", "member_id", member.ID)
		return nil, ErrInvalidCredentials
	}

	return s.IssueSession(ctx, member)
}

// IssueSession rotates the member's refresh token and mints a fresh
// access token. Both login flows terminate here; the refresh token
// store guarantees any prior token for this member becomes unusable.
func (s *Auther) IssueSession(ctx context.Context, member *Member) (*SessionPair, error) {
	if member == nil {
		return nil, ErrIdentityNotFound
	}

	accessToken, err := s.tokenService.Generate(NewIdentityFromMember(member))
	if err != nil {
		s.logger.Error("IssueSession token generation error", "member_id", member.ID, "error", err)
		return nil, err
	}

	refreshToken, err := s.refreshTokens.IssueFor(ctx, member.ID)
	if err != nil {
		s.logger.Error("IssueSession refresh token error", "member_id", member.ID, "error", err)
		return nil, err
	}

	return &SessionPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		Member:       NewMemberProfile(member),
	}, nil
}

// Logout revokes the member's active refresh token. The access token
// keeps working until expiry; there is no revocation list.
func (s *Auther) Logout(ctx context.Context, memberID uuid.UUID) error {
	return s.refreshTokens.RevokeForMember(ctx, memberID)
}
