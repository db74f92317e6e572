package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gracechapel/ministry-api/internal/cache"
	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gateSecret = "gate-test-secret-long-enough-for-hs256"

func newTestGate(t *testing.T) (*Gate, service.TokenService, *testutil.Users) {
	t.Helper()
	users := testutil.NewUsers(
		&models.User{ID: 1, Email: "media@gracechapel.org", Role: models.RoleMediaTeam, Name: "Media"},
		&models.User{ID: 2, Email: "guest@gracechapel.org", Role: models.RoleVisitor, Name: "Guest"},
	)
	perms := service.NewPermissionService(testutil.NewPermissions(
		&models.RolePermission{Role: models.RoleMediaTeam, Resource: models.ResourceSocialMediaPosts,
			CanCreate: true, CanRead: true, CanUpdate: true},
	), cache.NewMemoryPermissionCache(5*time.Minute))
	tokens := service.NewTokenService(gateSecret, time.Hour)
	return NewGate(tokens, users, perms, "auth_token"), tokens, users
}

func issue(t *testing.T, tokens service.TokenService, users *testutil.Users, id int64) string {
	t.Helper()
	user, found, err := users.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, found)
	token, _, err := tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func authKind(t *testing.T, err error) AuthErrorKind {
	t.Helper()
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "expected auth error, got %v", err)
	return authErr.Kind
}

func TestRequireAuth(t *testing.T) {
	gate, tokens, users := newTestGate(t)
	ctx := context.Background()

	user, err := gate.RequireAuth(ctx, issue(t, tokens, users, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, models.RoleMediaTeam, user.Role)

	foreign, _, err := service.NewTokenService("another-secret-long-enough-for-hs256!", time.Hour).Issue(user)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":   "",
		"garbage": "not-a-token",
		"foreign": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := gate.RequireAuth(ctx, token)
			assert.Equal(t, Unauthenticated, authKind(t, err))
		})
	}

	t.Run("deleted user", func(t *testing.T) {
		token := issue(t, tokens, users, 2)
		require.NoError(t, users.Remove(ctx, 2))
		_, err := gate.RequireAuth(ctx, token)
		assert.Equal(t, Unauthenticated, authKind(t, err))
	})
}

func TestRequirePermissionAndRole(t *testing.T) {
	gate, tokens, users := newTestGate(t)
	ctx := context.Background()
	media := issue(t, tokens, users, 1)
	guest := issue(t, tokens, users, 2)

	_, err := gate.RequirePermission(ctx, media, models.ResourceSocialMediaPosts, models.PermissionUpdate)
	assert.NoError(t, err)

	_, err = gate.RequirePermission(ctx, media, models.ResourceSocialMediaPosts, models.PermissionDelete)
	assert.Equal(t, Forbidden, authKind(t, err))

	_, err = gate.RequirePermission(ctx, guest, models.ResourceSocialMediaPosts, models.PermissionRead)
	assert.Equal(t, Forbidden, authKind(t, err))

	_, err = gate.RequirePermission(ctx, "", models.ResourceSocialMediaPosts, models.PermissionRead)
	assert.Equal(t, Unauthenticated, authKind(t, err))

	_, err = gate.RequireRole(ctx, media, models.RoleSuperAdmin, models.RoleAdmin)
	assert.Equal(t, Forbidden, authKind(t, err))

	user, err := gate.RequireRole(ctx, guest, models.RoleVisitor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)
}
