package oauth

import "github.com/goliatone/go-errors"

const (
	TextCodeProviderNotFound = "oauth_provider_not_found"
	TextCodeAuthFailed       = "oauth_authentication_failed"
)

// ErrProviderNotFound is returned when a requested provider is not configured.
var ErrProviderNotFound = errors.New("oauth provider not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProviderNotFound).
	WithCode(errors.CodeNotFound)

// ErrAuthenticationFailed covers every way a social login can fail
// after the provider is resolved: the code exchange, the user info
// fetch, and storage uniqueness violations during linking or
// provisioning. Concurrent duplicate logins lose with this error
// instead of silently succeeding twice.
var ErrAuthenticationFailed = errors.New("oauth authentication failed", errors.CategoryAuth).
	WithTextCode(TextCodeAuthFailed).
	WithCode(errors.CodeUnauthorized)

// IsAuthenticationFailed reports whether err carries the oauth
// authentication failure text code, wrapped or not.
func IsAuthenticationFailed(err error) bool {
	var rich *errors.Error
	if errors.As(err, &rich) && rich != nil {
		return rich.TextCode == TextCodeAuthFailed
	}
	return false
}

func wrapAuthFailed(provider, step string, err error) error {
	clone := ErrAuthenticationFailed.Clone()
	if clone == nil {
		clone = ErrAuthenticationFailed
	}

	meta := map[string]any{
		"provider": provider,
		"step":     step,
	}
	if err != nil {
		clone.Source = err
		meta["error"] = err.Error()
	}

	return clone.WithMetadata(meta)
}
