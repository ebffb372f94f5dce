package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-memberauth"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SocialAccountsRepository implements memberauth.SocialAccounts using Bun.
type SocialAccountsRepository struct {
	db *bun.DB
}

var _ memberauth.SocialAccounts = (*SocialAccountsRepository)(nil)

// NewSocialAccountsRepository creates a new repository.
func NewSocialAccountsRepository(db *bun.DB) *SocialAccountsRepository {
	return &SocialAccountsRepository{db: db}
}

// FindByProviderID implements memberauth.SocialAccounts.
func (r *SocialAccountsRepository) FindByProviderID(ctx context.Context, provider, providerUserID string) (*memberauth.SocialAccount, error) {
	record := &memberauth.SocialAccount{}
	err := r.db.NewSelect().
		Model(record).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FindByMemberID implements memberauth.SocialAccounts.
func (r *SocialAccountsRepository) FindByMemberID(ctx context.Context, memberID uuid.UUID) ([]*memberauth.SocialAccount, error) {
	var records []*memberauth.SocialAccount
	err := r.db.NewSelect().
		Model(&records).
		Where("member_id = ?", memberID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*memberauth.SocialAccount{}, nil
		}
		return nil, err
	}
	return records, nil
}

// Create implements memberauth.SocialAccounts. Links are insert only;
// the unique index on (provider, provider_user_id) rejects a second
// link for the same provider identity.
func (r *SocialAccountsRepository) Create(ctx context.Context, account *memberauth.SocialAccount) (*memberauth.SocialAccount, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(account).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return account, nil
}
