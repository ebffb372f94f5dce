package repository

import (
	"context"

	"github.com/goliatone/go-memberauth"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MembersRepository implements memberauth.Members using Bun.
type MembersRepository struct {
	repository.Repository[*memberauth.Member]
	db *bun.DB
}

var _ memberauth.Members = (*MembersRepository)(nil)

// NewMembersRepository creates a new members repository.
func NewMembersRepository(db *bun.DB) *MembersRepository {
	repo := repository.NewRepository[*memberauth.Member](db, repository.ModelHandlers[*memberauth.Member]{
		NewRecord: func() *memberauth.Member { return &memberauth.Member{} },
		GetID: func(m *memberauth.Member) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *memberauth.Member, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &MembersRepository{
		Repository: repo,
		db:         db,
	}
}

// GetByID implements memberauth.Members.
func (r *MembersRepository) GetByID(ctx context.Context, id uuid.UUID) (*memberauth.Member, error) {
	return r.getByColumn(ctx, "id", id)
}

// GetByEmail implements memberauth.Members.
func (r *MembersRepository) GetByEmail(ctx context.Context, email string) (*memberauth.Member, error) {
	return r.getByColumn(ctx, "email", email)
}

// GetByNickname implements memberauth.Members.
func (r *MembersRepository) GetByNickname(ctx context.Context, nickname string) (*memberauth.Member, error) {
	return r.getByColumn(ctx, "nickname", nickname)
}

// Create implements memberauth.Members. Unique constraints on email and
// nickname reject duplicates at the store.
func (r *MembersRepository) Create(ctx context.Context, member *memberauth.Member) (*memberauth.Member, error) {
	return r.CreateTx(ctx, r.db, member)
}

// CreateTx persists a new member inside the given transaction.
func (r *MembersRepository) CreateTx(ctx context.Context, tx bun.IDB, member *memberauth.Member, criteria ...repository.InsertCriteria) (*memberauth.Member, error) {
	prepareMemberDefaults(member)
	return r.Repository.CreateTx(ctx, tx, member, criteria...)
}

func (r *MembersRepository) getByColumn(ctx context.Context, column string, value any) (*memberauth.Member, error) {
	record := &memberauth.Member{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func prepareMemberDefaults(record *memberauth.Member) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = memberauth.RoleUser
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
