package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-memberauth"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultRefreshTokenTTL is the refresh token lifetime used when no
// override is configured.
const DefaultRefreshTokenTTL = 14 * 24 * time.Hour

// RefreshTokensRepository implements memberauth.RefreshTokens using Bun.
// A member holds at most one live token; issuing a new one deletes the
// previous row and inserts the replacement in the same transaction.
type RefreshTokensRepository struct {
	db  *bun.DB
	ttl time.Duration
	now func() time.Time
}

var _ memberauth.RefreshTokens = (*RefreshTokensRepository)(nil)

// RefreshTokensOption configures a RefreshTokensRepository.
type RefreshTokensOption func(*RefreshTokensRepository)

// WithRefreshTokenTTL overrides the default token lifetime.
func WithRefreshTokenTTL(ttl time.Duration) RefreshTokensOption {
	return func(r *RefreshTokensRepository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) RefreshTokensOption {
	return func(r *RefreshTokensRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRefreshTokensRepository creates a new refresh token repository.
func NewRefreshTokensRepository(db *bun.DB, opts ...RefreshTokensOption) *RefreshTokensRepository {
	repo := &RefreshTokensRepository{
		db:  db,
		ttl: DefaultRefreshTokenTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo
}

// IssueFor implements memberauth.RefreshTokens. The delete and insert
// run in one transaction so the member never holds two live tokens and
// never observes a window with a half rotated pair.
func (r *RefreshTokensRepository) IssueFor(ctx context.Context, memberID uuid.UUID) (*memberauth.RefreshToken, error) {
	opaque, err := memberauth.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	now := r.now()
	record := &memberauth.RefreshToken{
		ID:        uuid.New(),
		MemberID:  memberID,
		Token:     opaque,
		ExpiresAt: now.Add(r.ttl),
		CreatedAt: now,
	}

	err = r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*memberauth.RefreshToken)(nil)).
			Where("member_id = ?", memberID).
			Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewInsert().
			Model(record).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// FindByMemberID implements memberauth.RefreshTokens. Expired rows are
// filtered out at the query so callers never see a stale token.
func (r *RefreshTokensRepository) FindByMemberID(ctx context.Context, memberID uuid.UUID) (*memberauth.RefreshToken, error) {
	record := &memberauth.RefreshToken{}
	err := r.db.NewSelect().
		Model(record).
		Where("member_id = ?", memberID).
		Where("expires_at > ?", r.now()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FindByToken implements memberauth.RefreshTokens.
func (r *RefreshTokensRepository) FindByToken(ctx context.Context, token string) (*memberauth.RefreshToken, error) {
	record := &memberauth.RefreshToken{}
	err := r.db.NewSelect().
		Model(record).
		Where("token = ?", token).
		Where("expires_at > ?", r.now()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RevokeForMember implements memberauth.RefreshTokens. Revoking a
// member with no live token is a no op.
func (r *RefreshTokensRepository) RevokeForMember(ctx context.Context, memberID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*memberauth.RefreshToken)(nil)).
		Where("member_id = ?", memberID).
		Exec(ctx)
	return err
}
