package memberauth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Member is the identity record. The record is owned by the external
// member store; this core reads it and triggers creation on first
// social login.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:mbr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Nickname      string     `bun:"nickname,notnull,unique" json:"nickname,omitempty"`
	Role          MemberRole `bun:"member_role,notnull" json:"member_role,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsSocialOnly reports whether the member was provisioned through a
// social login and has never set a password. An empty hash marks the
// account as social only; password login must reject it.
func (m *Member) IsSocialOnly() bool {
	return m.PasswordHash == ""
}

// SocialAccount links a provider identity to a member. A member has at
// most one link per provider and (provider, provider_user_id) is
// globally unique.
type SocialAccount struct {
	bun.BaseModel  `bun:"table:social_accounts,alias:sa"`
	ID             uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	MemberID       uuid.UUID `bun:"member_id,notnull,type:uuid" json:"member_id,omitempty"`
	Provider       string    `bun:"provider,notnull" json:"provider,omitempty"`
	ProviderUserID string    `bun:"provider_user_id,notnull" json:"provider_user_id,omitempty"`
	CreatedAt      time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// RefreshToken is the single opaque credential row per member. Issuing
// a new one supersedes the previous row inside one transaction.
type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rt"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	MemberID      uuid.UUID `bun:"member_id,notnull,unique,type:uuid" json:"member_id,omitempty"`
	Token         string    `bun:"token,notnull,unique" json:"-"`
	ExpiresAt     time.Time `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the token is past its expiry at the given
// instant.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

type memberIdentity struct {
	id       string
	email    string
	nickname string
	role     string
}

func (m *memberIdentity) ID() string       { return m.id }
func (m *memberIdentity) Email() string    { return m.email }
func (m *memberIdentity) Nickname() string { return m.nickname }
func (m *memberIdentity) Role() string     { return m.role }

// NewIdentityFromMember adapts a Member record into the Identity view
// consumed by the token service.
func NewIdentityFromMember(m *Member) Identity {
	if m == nil {
		return nil
	}
	return &memberIdentity{
		id:       m.ID.String(),
		email:    m.Email,
		nickname: m.Nickname,
		role:     m.Role,
	}
}
