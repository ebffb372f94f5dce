package memberauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims represents the structured identity claims carried inside
// a signed access token.
type AccessClaims interface {
	Subject() string
	MemberID() string
	Email() string
	Role() string
	HasRole(role string) bool
	IsAtLeast(minRole MemberRole) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AccessClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	MemberEmail string `json:"email,omitempty"`
	MemberRole  string `json:"role,omitempty"`
}

// Verify interface compliance
var _ AccessClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// MemberID returns the member ID carried in the subject claim
func (c *JWTClaims) MemberID() string {
	return c.Subject()
}

// Email returns the member email
func (c *JWTClaims) Email() string {
	return c.MemberEmail
}

// Role returns the member role
func (c *JWTClaims) Role() string {
	return c.MemberRole
}

// HasRole checks if the member has a specific role
func (c *JWTClaims) HasRole(role string) bool {
	return c.MemberRole == role
}

// IsAtLeast checks if the member role meets the minimum required level
func (c *JWTClaims) IsAtLeast(minRole MemberRole) bool {
	return RoleIsAtLeast(c.MemberRole, minRole)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}
