package memberauth

// MemberProfile carries the public member fields returned with a
// session pair. Never includes the password hash.
type MemberProfile struct {
	ID       string     `json:"id"`
	Email    string     `json:"email"`
	Nickname string     `json:"nickname"`
	Role     MemberRole `json:"role"`
}

// SessionPair is the result of a successful login: a short lived signed
// access token and the opaque refresh token that replaced any prior one
// for this member.
type SessionPair struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Member       *MemberProfile `json:"member,omitempty"`
}

// NewMemberProfile builds the public profile view of a member
func NewMemberProfile(m *Member) *MemberProfile {
	if m == nil {
		return nil
	}
	return &MemberProfile{
		ID:       m.ID.String(),
		Email:    m.Email,
		Nickname: m.Nickname,
		Role:     m.Role,
	}
}
