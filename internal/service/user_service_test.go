package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/testutil"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	superAdmin = Actor{UserID: 1, Role: models.RoleSuperAdmin}
	admin      = Actor{UserID: 2, Role: models.RoleAdmin}
)

func newUserFixture() (UserService, *testutil.Users, *testutil.ActivityLog) {
	users := testutil.NewUsers(
		&models.User{ID: 1, Email: "root@gracechapel.org", Role: models.RoleSuperAdmin, Name: "Root"},
		&models.User{ID: 2, Email: "admin@gracechapel.org", Role: models.RoleAdmin, Name: "Admin"},
		&models.User{ID: 3, Email: "member@gracechapel.org", Role: models.RoleMember, Name: "Member"},
	)
	activity := &testutil.ActivityLog{}
	return NewUserService(users, NewActivityService(activity)), users, activity
}

func TestUserCreate(t *testing.T) {
	s, _, activity := newUserFixture()
	ctx := context.Background()

	user, err := s.Create(ctx, admin, &transfer.UserCreation{
		Email: " Deacon@GraceChapel.org ", Name: " Deacon ", Password: "long enough",
	})
	require.NoError(t, err)
	assert.Equal(t, "deacon@gracechapel.org", user.Email)
	assert.Equal(t, "Deacon", user.Name)
	assert.Equal(t, models.RoleMember, user.Role)
	assert.Equal(t, []string{models.ActionCreate}, activity.Actions())

	tests := []struct {
		name  string
		in    transfer.UserCreation
		field string
	}{
		{"unknown role", transfer.UserCreation{Email: "a@b.org", Name: "A", Password: "long enough", Role: "bishop"}, "role"},
		{"short password", transfer.UserCreation{Email: "a@b.org", Name: "A", Password: "short"}, "password"},
		{"long password", transfer.UserCreation{Email: "a@b.org", Name: "A", Password: strings.Repeat("x", 80)}, "password"},
		{"bad email", transfer.UserCreation{Email: "nope", Name: "A", Password: "long enough"}, "email"},
		{"no name", transfer.UserCreation{Email: "a@b.org", Password: "long enough"}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			_, err := s.Create(ctx, admin, &in)
			assert.Equal(t, tt.field, fieldOf(t, err))
		})
	}

	_, err = s.Create(ctx, admin, &transfer.UserCreation{Email: "member@gracechapel.org", Name: "Dup", Password: "long enough"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserRoleGrants(t *testing.T) {
	ctx := context.Background()
	role := func(r string) *transfer.UserUpdate { return &transfer.UserUpdate{Role: &r} }

	tests := []struct {
		name    string
		actor   Actor
		target  int64
		update  *transfer.UserUpdate
		wantErr error
	}{
		{"admin promotes member", admin, 3, role(models.RolePastor), nil},
		{"admin grants super admin", admin, 3, role(models.RoleSuperAdmin), ErrForbidden},
		{"admin escalates self", admin, 2, role(models.RoleSuperAdmin), ErrForbidden},
		{"admin demotes super admin", admin, 1, role(models.RoleMember), ErrForbidden},
		{"super admin grants super admin", superAdmin, 3, role(models.RoleSuperAdmin), nil},
		{"super admin changes own role", superAdmin, 1, role(models.RoleAdmin), ErrForbidden},
		{"same role is a no-op", admin, 2, role(models.RoleAdmin), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, users, _ := newUserFixture()
			before, _, err := users.GetByID(ctx, tt.target)
			require.NoError(t, err)

			_, err = s.Update(ctx, tt.actor, tt.target, tt.update)
			after, _, getErr := users.GetByID(ctx, tt.target)
			require.NoError(t, getErr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before.Role, after.Role)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *tt.update.Role, after.Role)
		})
	}

	s, _, _ := newUserFixture()
	_, err := s.Create(ctx, admin, &transfer.UserCreation{
		Email: "boss@gracechapel.org", Name: "Boss", Password: "long enough", Role: models.RoleSuperAdmin,
	})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Update(ctx, admin, 3, role("bishop"))
	assert.Equal(t, "role", fieldOf(t, err))
}

func TestUserUpdateFields(t *testing.T) {
	s, users, _ := newUserFixture()
	ctx := context.Background()
	_, err := s.Update(ctx, admin, 3, &transfer.UserUpdate{Email: ptr("Admin@GraceChapel.org")})
	assert.ErrorIs(t, err, ErrConflict)

	email := "new@gracechapel.org"
	password := "another long one"
	updated, err := s.Update(ctx, admin, 3, &transfer.UserUpdate{Email: &email, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)

	stored, _, err := users.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)

	long := strings.Repeat("y", 73)
	_, err = s.Update(ctx, admin, 3, &transfer.UserUpdate{Password: &long})
	assert.Equal(t, "password", fieldOf(t, err))

	_, err = s.Update(ctx, admin, 99, &transfer.UserUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveUser(t *testing.T) {
	s, users, activity := newUserFixture()
	ctx := context.Background()

	err := s.RemoveUser(ctx, admin, admin.UserID)
	assert.Equal(t, "id", fieldOf(t, err))

	assert.ErrorIs(t, s.RemoveUser(ctx, admin, 99), ErrNotFound)

	require.NoError(t, s.RemoveUser(ctx, admin, 3))
	_, found, err := users.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []string{models.ActionDelete}, activity.Actions())
}

type failingActivityRepo struct {
	testutil.ActivityLog
}

func (*failingActivityRepo) Create(context.Context, *models.ActivityLog) (int64, error) {
	return 0, errors.New("disk full")
}

func TestActivityLog(t *testing.T) {
	store := &testutil.ActivityLog{}
	s := NewActivityService(store)
	ctx := context.Background()

	s.Log(ctx, Actor{IP: "10.0.0.9"}, models.ActionLogin, models.ResourceUsers, 0, nil)
	s.Log(ctx, Actor{UserID: 3, IP: "10.0.0.3"}, models.ActionCreate, models.ResourceBlogs, 12, models.Details{"slug": "welcome"})
	s.Log(ctx, Actor{UserID: 3}, models.ActionDelete, models.ResourceBlogs, 12, nil)
	s.Log(ctx, Actor{UserID: 4}, models.ActionCreate, models.ResourceEvents, 5, nil)

	anonymous := store.Entries[0]
	assert.Nil(t, anonymous.UserID)
	assert.Nil(t, anonymous.ResourceID)
	assert.Equal(t, "10.0.0.9", anonymous.IPAddress)

	created := store.Entries[1]
	require.NotNil(t, created.UserID)
	assert.Equal(t, int64(3), *created.UserID)
	require.NotNil(t, created.ResourceID)
	assert.Equal(t, int64(12), *created.ResourceID)
	assert.Equal(t, "welcome", created.Details["slug"])

	user := int64(3)
	tests := []struct {
		name   string
		filter repository.ActivityFilter
		want   int
	}{
		{"all", repository.ActivityFilter{}, 4},
		{"by user", repository.ActivityFilter{UserID: &user}, 2},
		{"by resource", repository.ActivityFilter{ResourceType: string(models.ResourceBlogs)}, 2},
		{"by action", repository.ActivityFilter{Action: models.ActionCreate}, 2},
		{"combined", repository.ActivityFilter{UserID: &user, Action: models.ActionDelete}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.List(ctx, tt.filter, transfer.NewPage(0, 0))
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}

	assert.NotPanics(t, func() {
		NewActivityService(&failingActivityRepo{}).Log(ctx, Actor{UserID: 1}, models.ActionUpdate, models.ResourceSettings, 0, nil)
	})
}
