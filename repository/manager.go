package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-memberauth"
	"github.com/uptrace/bun"
)

type mngr struct {
	db             *bun.DB
	members        *MembersRepository
	socialAccounts *SocialAccountsRepository
	refreshTokens  *RefreshTokensRepository
}

// ManagerOption configures the repository manager.
type ManagerOption func(*mngr)

// WithRefreshTokenOptions forwards options to the refresh token
// repository built by the manager.
func WithRefreshTokenOptions(opts ...RefreshTokensOption) ManagerOption {
	return func(m *mngr) {
		m.refreshTokens = NewRefreshTokensRepository(m.db, opts...)
	}
}

// NewRepositoryManager wires the Bun backed repositories behind a
// single transactional boundary.
func NewRepositoryManager(db *bun.DB, opts ...ManagerOption) memberauth.RepositoryManager {
	m := &mngr{
		db:             db,
		members:        NewMembersRepository(db),
		socialAccounts: NewSocialAccountsRepository(db),
		refreshTokens:  NewRefreshTokensRepository(db),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m mngr) Validate() error {
	if m.members == nil {
		return errors.New("repository members should be initialized")
	}

	if m.socialAccounts == nil {
		return errors.New("repository socialAccounts should be initialized")
	}

	if m.refreshTokens == nil {
		return errors.New("repository refreshTokens should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Members() memberauth.Members {
	return m.members
}

func (m mngr) SocialAccounts() memberauth.SocialAccounts {
	return m.socialAccounts
}

func (m mngr) RefreshTokens() memberauth.RefreshTokens {
	return m.refreshTokens
}
