package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gracechapel/ministry-api/internal/cache"
	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func mediaTeamRows() []*models.RolePermission {
	return []*models.RolePermission{
		{Role: models.RoleMediaTeam, Resource: models.ResourceSocialMediaPosts, CanCreate: true, CanRead: true, CanUpdate: true},
		{Role: models.RoleMediaTeam, Resource: models.ResourceGallery, CanRead: true},
	}
}

func newPermissionFixture(t *testing.T) (PermissionService, *testutil.Permissions, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	repo := testutil.NewPermissions(mediaTeamRows()...)
	c := cache.NewMemoryPermissionCache(5*time.Minute, cache.WithClock(clock.Now))
	return NewPermissionService(repo, c), repo, clock
}

func TestHasPermission_DefaultDeny(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newPermissionFixture(t)
	mediaTeam := &models.User{ID: 1, Role: models.RoleMediaTeam}

	tests := []struct {
		name     string
		user     *models.User
		resource models.Resource
		perm     models.Permission
		want     bool
	}{
		{"granted flag", mediaTeam, models.ResourceSocialMediaPosts, models.PermissionUpdate, true},
		{"flag off", mediaTeam, models.ResourceSocialMediaPosts, models.PermissionDelete, false},
		{"no row for resource", mediaTeam, models.ResourceUsers, models.PermissionRead, false},
		{"unknown permission", mediaTeam, models.ResourceSocialMediaPosts, models.Permission("can_publish"), false},
		{"role without rows", &models.User{ID: 2, Role: models.RoleVisitor}, models.ResourceGallery, models.PermissionRead, false},
		{"no user", nil, models.ResourceGallery, models.PermissionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.HasPermission(ctx, tt.user, tt.resource, tt.perm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetRolePermissions_CachesPerRole(t *testing.T) {
	ctx := context.Background()
	s, repo, _ := newPermissionFixture(t)
	user := &models.User{ID: 1, Role: models.RoleMediaTeam}

	for i := 0; i < 3; i++ {
		_, err := s.HasPermission(ctx, user, models.ResourceGallery, models.PermissionRead)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.Reads)
}

func TestGetRolePermissions_StaleUntilTTL(t *testing.T) {
	ctx := context.Background()
	s, repo, clock := newPermissionFixture(t)
	user := &models.User{ID: 1, Role: models.RoleMediaTeam}

	ok, err := s.HasPermission(ctx, user, models.ResourceSocialMediaPosts, models.PermissionUpdate)
	require.NoError(t, err)
	require.True(t, ok)

	// revoke directly in storage, bypassing the service
	require.NoError(t, repo.Upsert(ctx, &models.RolePermission{
		Role: models.RoleMediaTeam, Resource: models.ResourceSocialMediaPosts, CanRead: true,
	}))

	clock.Advance(4 * time.Minute)
	ok, err = s.HasPermission(ctx, user, models.ResourceSocialMediaPosts, models.PermissionUpdate)
	require.NoError(t, err)
	assert.True(t, ok, "cached grant is served until the TTL passes")

	clock.Advance(time.Minute + time.Second)
	ok, err = s.HasPermission(ctx, user, models.ResourceSocialMediaPosts, models.PermissionUpdate)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearPermissionsCache_ReflectsStorage(t *testing.T) {
	ctx := context.Background()
	s, repo, _ := newPermissionFixture(t)
	user := &models.User{ID: 1, Role: models.RoleMediaTeam}

	ok, err := s.HasPermission(ctx, user, models.ResourceGallery, models.PermissionDelete)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Upsert(ctx, &models.RolePermission{
		Role: models.RoleMediaTeam, Resource: models.ResourceGallery, CanRead: true, CanDelete: true,
	}))
	require.NoError(t, s.ClearPermissionsCache(ctx))

	ok, err = s.HasPermission(ctx, user, models.ResourceGallery, models.PermissionDelete)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpsert_ClearsCache(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newPermissionFixture(t)
	user := &models.User{ID: 1, Role: models.RoleMediaTeam}

	_, err := s.HasPermission(ctx, user, models.ResourceNotes, models.PermissionRead)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, &models.RolePermission{
		Role: models.RoleMediaTeam, Resource: models.ResourceNotes, CanRead: true,
	}))

	ok, err := s.HasPermission(ctx, user, models.ResourceNotes, models.PermissionRead)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpsert_Validates(t *testing.T) {
	s, _, _ := newPermissionFixture(t)

	err := s.Upsert(context.Background(), &models.RolePermission{Role: "deacon", Resource: models.ResourceNotes})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)

	err = s.Upsert(context.Background(), &models.RolePermission{Role: models.RoleAdmin, Resource: "payments"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "resource", verr.Field)
}

func TestDelete_Missing(t *testing.T) {
	s, _, _ := newPermissionFixture(t)
	err := s.Delete(context.Background(), models.RoleAdmin, models.ResourceNotes)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newPermissionFixture(t)
	user := &models.User{ID: 1, Role: models.RoleMediaTeam}

	granted := PermissionCheck{Resource: models.ResourceSocialMediaPosts, Permission: models.PermissionRead}
	denied := PermissionCheck{Resource: models.ResourceUsers, Permission: models.PermissionRead}

	ok, err := s.HasAnyPermission(ctx, user, []PermissionCheck{denied, granted})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasAllPermissions(ctx, user, []PermissionCheck{denied, granted})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.HasAnyPermission(ctx, user, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.HasAllPermissions(ctx, user, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
