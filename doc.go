// Package memberauth implements the member identity and session
// authentication core for a multi tenant platform: stateless signed
// access tokens, an opaque single-active refresh token per member,
// password and social login flows, and request middleware that resolves
// a token into an identity.
//
// The package exposes narrow collaborator interfaces (Members,
// SocialAccounts, RefreshTokens) so the backing store is swappable; the
// repository subpackage provides Bun backed implementations.
package memberauth
