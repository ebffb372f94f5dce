package oauth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-repository-bun"

	"github.com/goliatone/go-memberauth"
)

// Orchestrator runs the social login decision procedure. Resolution
// order is fixed: an existing (provider, subject id) link wins, then an
// email match links the provider identity to the existing member, and
// only then is a new member provisioned. A stable subject id match is
// authoritative even when the provider reports a different email than
// it did on a prior login.
type Orchestrator struct {
	providers     map[string]Provider
	members       memberauth.Members
	accounts      memberauth.SocialAccounts
	sessions      memberauth.SessionIssuer
	nicknames     *memberauth.NicknameProvisioner
	provisionRole memberauth.MemberRole
	logger        memberauth.Logger
}

var _ memberauth.SocialAuthenticator = (*Orchestrator)(nil)

// Option configures the orchestrator.
type Option func(*Orchestrator)

// NewOrchestrator creates a social login orchestrator.
func NewOrchestrator(
	members memberauth.Members,
	accounts memberauth.SocialAccounts,
	sessions memberauth.SessionIssuer,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		providers:     make(map[string]Provider),
		members:       members,
		accounts:      accounts,
		sessions:      sessions,
		provisionRole: memberauth.RoleUser,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.nicknames == nil {
		o.nicknames = memberauth.NewNicknameProvisioner(nil)
	}

	if o.logger == nil {
		o.logger = memberauth.NewDefaultLogger()
	}

	return o
}

// WithProvider registers a social provider.
func WithProvider(provider Provider) Option {
	return func(o *Orchestrator) {
		if provider == nil {
			return
		}
		o.providers[provider.Name()] = provider
	}
}

// WithNicknameProvisioner sets the display name generator used on the
// provisioning path.
func WithNicknameProvisioner(p *memberauth.NicknameProvisioner) Option {
	return func(o *Orchestrator) {
		o.nicknames = p
	}
}

// WithProvisionRole sets the role assigned to provisioned members,
// RoleUser by default.
func WithProvisionRole(role memberauth.MemberRole) Option {
	return func(o *Orchestrator) {
		if memberauth.IsValidRole(role) {
			o.provisionRole = role
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger memberauth.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// AuthCodeURL returns the provider's authorization redirect URL.
func (o *Orchestrator) AuthCodeURL(providerName, state string) (string, error) {
	provider, ok := o.providers[providerName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrProviderNotFound, providerName)
	}
	return provider.AuthCodeURL(state), nil
}

// LoginOrRegister exchanges the authorization code, resolves the member
// through the account resolution state machine, and issues a session.
// The returned bool reports whether this login provisioned a new
// member.
func (o *Orchestrator) LoginOrRegister(ctx context.Context, providerName, code string) (*memberauth.SessionPair, bool, error) {
	provider, ok := o.providers[providerName]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrProviderNotFound, providerName)
	}

	token, err := provider.Exchange(ctx, code)
	if err != nil {
		o.logger.Error("OAuth code exchange failed", "provider", providerName, "error", err)
		return nil, false, wrapAuthFailed(providerName, "exchange", err)
	}

	info, err := provider.UserInfo(ctx, token)
	if err != nil {
		o.logger.Error("OAuth user info fetch failed", "provider", providerName, "error", err)
		return nil, false, wrapAuthFailed(providerName, "user_info", err)
	}
	if info == nil || info.ProviderUserID == "" {
		return nil, false, wrapAuthFailed(providerName, "user_info", errors.New("empty provider profile"))
	}
	info.Provider = providerName

	member, isFirstLogin, err := o.resolveMember(ctx, info)
	if err != nil {
		return nil, false, err
	}

	session, err := o.sessions.IssueSession(ctx, member)
	if err != nil {
		return nil, false, err
	}

	return session, isFirstLogin, nil
}

// resolveMember is the account resolution state machine.
func (o *Orchestrator) resolveMember(ctx context.Context, info *UserInfo) (*memberauth.Member, bool, error) {
	account, err := o.accounts.FindByProviderID(ctx, info.Provider, info.ProviderUserID)
	if err == nil && account != nil {
		member, err := o.members.GetByID(ctx, account.MemberID)
		if err != nil || member == nil {
			o.logger.Error("OAuth linked member missing", "provider", info.Provider, "member_id", account.MemberID, "error", err)
			return nil, false, wrapAuthFailed(info.Provider, "linked_member", err)
		}
		return member, false, nil
	}
	if err != nil && !isNotFound(err) {
		return nil, false, wrapAuthFailed(info.Provider, "link_lookup", err)
	}

	if info.Email == "" {
		// Without an email there is nothing to link or provision from.
		return nil, false, wrapAuthFailed(info.Provider, "user_info", errors.New("provider reported no email"))
	}

	member, err := o.members.GetByEmail(ctx, info.Email)
	if err == nil && member != nil {
		if err := o.linkAccount(ctx, member, info); err != nil {
			return nil, false, err
		}
		return member, false, nil
	}
	if err != nil && !isNotFound(err) {
		return nil, false, wrapAuthFailed(info.Provider, "email_lookup", err)
	}

	created, err := o.provisionMember(ctx, info)
	if err != nil {
		return nil, false, err
	}

	if err := o.linkAccount(ctx, created, info); err != nil {
		return nil, false, err
	}

	return created, true, nil
}

func (o *Orchestrator) linkAccount(ctx context.Context, member *memberauth.Member, info *UserInfo) error {
	_, err := o.accounts.Create(ctx, &memberauth.SocialAccount{
		MemberID:       member.ID,
		Provider:       info.Provider,
		ProviderUserID: info.ProviderUserID,
	})
	if err != nil {
		// The unique constraints are the safety net for two concurrent
		// first logins; the loser surfaces here.
		o.logger.Error("OAuth account link failed", "provider", info.Provider, "member_id", member.ID, "error", err)
		return wrapAuthFailed(info.Provider, "link", err)
	}
	return nil
}

// provisionMember creates a social only member. The password hash is
// left empty on purpose; that is what marks the account as social only.
// Nickname uniqueness violations are retried with a fresh name up to
// MaxNicknameAttempts, after which the guaranteed unique fallback
// scheme takes over.
func (o *Orchestrator) provisionMember(ctx context.Context, info *UserInfo) (*memberauth.Member, error) {
	for attempt := 0; attempt <= memberauth.MaxNicknameAttempts; attempt++ {
		var nickname string
		if attempt < memberauth.MaxNicknameAttempts {
			nickname = o.nicknames.Generate()
		} else {
			nickname = o.nicknames.Fallback()
		}

		created, err := o.members.Create(ctx, &memberauth.Member{
			Email:    info.Email,
			Nickname: nickname,
			Role:     o.provisionRole,
		})
		if err == nil {
			return created, nil
		}

		if memberauth.IsUniqueViolationOn(err, "nickname") {
			o.logger.Debug("OAuth nickname collision, retrying", "nickname", nickname, "attempt", attempt)
			continue
		}

		// Any other failure, an email uniqueness violation from a
		// concurrent first login included, fails the whole flow.
		o.logger.Error("OAuth member provisioning failed", "provider", info.Provider, "error", err)
		return nil, wrapAuthFailed(info.Provider, "provision", err)
	}

	return nil, wrapAuthFailed(info.Provider, "provision", errors.New("nickname attempts exhausted"))
}

func isNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}
