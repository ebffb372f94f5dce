package memberauth_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-memberauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityContext(t *testing.T) {
	identity := &memberauth.AuthenticatedIdentity{
		MemberID: "member-123",
		Email:    "member@example.com",
		Role:     memberauth.RoleUser,
	}

	t.Run("round trips through the context", func(t *testing.T) {
		ctx := memberauth.WithIdentityContext(context.Background(), identity)

		got, ok := memberauth.IdentityFromContext(ctx)

		require.True(t, ok)
		assert.Equal(t, identity, got)
	})

	t.Run("anonymous context yields no identity and no error", func(t *testing.T) {
		got, ok := memberauth.IdentityFromContext(context.Background())

		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("require identity fails for anonymous context", func(t *testing.T) {
		_, err := memberauth.RequireIdentity(context.Background())

		assert.ErrorIs(t, err, memberauth.ErrIdentityNotFound)
	})

	t.Run("require identity succeeds when attached", func(t *testing.T) {
		ctx := memberauth.WithIdentityContext(context.Background(), identity)

		got, err := memberauth.RequireIdentity(ctx)

		require.NoError(t, err)
		assert.Equal(t, "member-123", got.MemberID)
	})

	t.Run("nil identity value stays anonymous", func(t *testing.T) {
		ctx := memberauth.WithIdentityContext(context.Background(), nil)

		_, ok := memberauth.IdentityFromContext(ctx)

		assert.False(t, ok)
	})
}

func TestIdentityFromClaims(t *testing.T) {
	t.Run("copies claim fields", func(t *testing.T) {
		service := memberauth.NewTokenService([]byte("key"), 15, "iss", nil, nil)

		identity := &MockIdentity{}
		identity.On("ID").Return("member-123")
		identity.On("Email").Return("member@example.com")
		identity.On("Role").Return(memberauth.RoleOrganization)

		tokenString, err := service.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		require.NoError(t, err)

		got := memberauth.IdentityFromClaims(claims)

		require.NotNil(t, got)
		assert.Equal(t, "member-123", got.MemberID)
		assert.Equal(t, "member@example.com", got.Email)
		assert.Equal(t, memberauth.RoleOrganization, got.Role)
	})

	t.Run("nil claims yield nil", func(t *testing.T) {
		assert.Nil(t, memberauth.IdentityFromClaims(nil))
	})
}
