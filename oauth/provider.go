// Package oauth implements the social login orchestration: provider
// code exchange, the account resolution state machine (existing link,
// email match, provision), and nickname backed member provisioning.
package oauth

import (
	"context"
	"time"
)

// Known provider names.
const (
	ProviderGoogle = "google"
	ProviderKakao  = "kakao"
)

// Provider defines the interface for OAuth2 social login providers.
type Provider interface {
	// Name returns the provider identifier (e.g., "google", "kakao").
	Name() string

	// AuthCodeURL returns the URL to redirect users for authorization.
	// The state parameter should be included for CSRF protection.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (*Token, error)

	// UserInfo fetches the user's profile using the access token.
	UserInfo(ctx context.Context, token *Token) (*UserInfo, error)
}

// Token represents an OAuth2 token response.
type Token struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	ExpiresAt    time.Time
	Raw          map[string]any
}

// UserInfo is the normalized provider profile consumed by the
// orchestrator. It is ephemeral: produced per login attempt and never
// persisted.
type UserInfo struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
}
