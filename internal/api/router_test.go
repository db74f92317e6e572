package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/gracechapel/ministry-api/configs"
	"github.com/gracechapel/ministry-api/internal/api/handlers"
	"github.com/gracechapel/ministry-api/internal/api/middleware"
	"github.com/gracechapel/ministry-api/internal/cache"
	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/publisher"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "router-test-secret-long-enough-for-hs256"
	testKey    = "0123456789abcdef0123456789abcdef"
)

type testServer struct {
	app    *fiber.App
	tokens service.TokenService
	users  *testutil.Users
	posts  *testutil.Posts
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := testutil.NewUsers(
		&models.User{ID: 1, Email: "root@gracechapel.org", Role: models.RoleSuperAdmin, Name: "Root"},
		&models.User{ID: 2, Email: "media@gracechapel.org", Role: models.RoleMediaTeam, Name: "Media"},
		&models.User{ID: 3, Email: "guest@gracechapel.org", Role: models.RoleVisitor, Name: "Guest"},
		&models.User{ID: 4, Email: "admin@gracechapel.org", Role: models.RoleAdmin, Name: "Admin"},
	)
	perms := testutil.NewPermissions(
		&models.RolePermission{Role: models.RoleMediaTeam, Resource: models.ResourceSocialMediaPosts,
			CanCreate: true, CanRead: true, CanUpdate: true},
		&models.RolePermission{Role: models.RoleAdmin, Resource: models.ResourceUsers,
			CanCreate: true, CanRead: true, CanUpdate: true},
	)
	accounts := testutil.NewAccounts(&models.SocialAccount{Platform: models.PlatformFacebook, AccountName: "Grace Chapel"})
	links := testutil.NewLinks(accounts)
	posts := testutil.NewPosts(&models.SocialPost{Content: "Sunday service at 10am", MediaType: models.MediaTypeNone, Status: models.PostStatusDraft})
	links.Add(1, 1, models.LinkStatusPending)
	activity := service.NewActivityService(&testutil.ActivityLog{})

	tokens := service.NewTokenService(testSecret, time.Hour)
	permissionService := service.NewPermissionService(perms, cache.NewMemoryPermissionCache(5*time.Minute))
	accountService := service.NewSocialAccountService(accounts, links, activity, testKey)
	postService := service.NewPostService(testutil.NoTx{}, posts, links, accounts, activity, nil)
	publishService := service.NewPublishService(posts, links, accounts, &testutil.Analytics{}, accountService,
		publisher.Build(publisher.Options{}), activity, service.PublishOptions{Concurrency: 1, PlatformTimeout: time.Second})

	cfg := &config.Config{CookieName: "auth_token", TokenTTL: time.Hour}
	gate := middleware.NewGate(tokens, users, permissionService, cfg.CookieName)

	app := fiber.New()
	Register(app, gate, middleware.NewLoginLimiter(2), Handlers{
		Auth:        handlers.NewAuthHandler(cfg, service.NewAuthService(users, tokens, activity)),
		Users:       handlers.NewUserHandler(service.NewUserService(users, activity)),
		Permissions: handlers.NewPermissionHandler(permissionService),
		Posts:       handlers.NewPostHandler(postService, publishService),
	})

	return &testServer{app: app, tokens: tokens, users: users, posts: posts}
}

func (s *testServer) token(t *testing.T, userID int64) string {
	t.Helper()
	user, found, err := s.users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, found)
	token, _, err := s.tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestGate_Unauthenticated(t *testing.T) {
	s := newTestServer(t)
	valid := s.token(t, 2)

	status, _ := s.do(t, http.MethodGet, "/api/social-media/posts/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/api/social-media/posts/1", valid[:len(valid)-2]+"zz", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	foreign, _, err := service.NewTokenService("some-other-secret-that-is-long-enough", time.Hour).
		Issue(&models.User{ID: 2, Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	status, _ = s.do(t, http.MethodGet, "/api/social-media/posts/1", foreign, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	require.NoError(t, s.users.Remove(context.Background(), 2))
	status, body := s.do(t, http.MethodGet, "/api/social-media/posts/1", valid, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "user no longer exists", body["error"])
}

func TestGate_CookieToken(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: s.token(t, 3)})

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGate_MediaTeamOnPosts(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 2)

	status, body := s.do(t, http.MethodDelete, "/api/social-media/posts/1", token, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "insufficient permissions", body["error"])

	status, body = s.do(t, http.MethodPut, "/api/social-media/posts/1", token, `{"content":"Sunday service moved to 11am"}`)
	require.Equal(t, http.StatusOK, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Sunday service moved to 11am", data["content"])

	status, body = s.do(t, http.MethodGet, "/api/social-media/posts/1", token, "")
	require.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]any)
	assert.Equal(t, "Sunday service moved to 11am", data["content"])
}

func TestGate_RoleWithoutRowsIsDenied(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(t, http.MethodGet, "/api/users", s.token(t, 3), "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodGet, "/api/social-media/posts", s.token(t, 3), "")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestPermissionsRoutes_SuperAdminOnly(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/permissions", s.token(t, 4), "")
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.do(t, http.MethodGet, "/api/permissions/media_team", s.token(t, 1), "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, _ = s.do(t, http.MethodPost, "/api/permissions/cache/clear", s.token(t, 1), "")
	assert.Equal(t, http.StatusOK, status)
}

func TestPublishRoute(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 2)

	status, body := s.do(t, http.MethodPost, "/api/social-media/posts/1/publish", token, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Post published successfully", body["message"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["success"])

	status, body = s.do(t, http.MethodPost, "/api/social-media/posts/1/publish", token, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "nothing to publish", body["error"])

	status, _ = s.do(t, http.MethodPost, "/api/social-media/posts/99/publish", token, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLogin_RateLimited(t *testing.T) {
	s := newTestServer(t)
	body := `{"email":"nobody@gracechapel.org","password":"wrong password"}`

	for i := 0; i < 2; i++ {
		status, _ := s.do(t, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, _ := s.do(t, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestUserRoutes_RoleGrants(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, 4)

	status, body := s.do(t, http.MethodPut, "/api/users/4", admin, `{"role":"super_admin"}`)
	assert.Equal(t, http.StatusForbidden, status, body)

	status, _ = s.do(t, http.MethodPut, "/api/users/3", admin, `{"role":"super_admin"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPut, "/api/users/1", admin, `{"role":"member"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodPut, "/api/users/3", admin, `{"role":"member"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, models.RoleMember, body["data"].(map[string]any)["role"])

	status, _ = s.do(t, http.MethodPost, "/api/users", admin,
		`{"email":"new@gracechapel.org","name":"New","password":"long enough","role":"super_admin"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPut, "/api/users/3", s.token(t, 1), `{"role":"super_admin"}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	s := newTestServer(t)
	body := `{"email":"long@gracechapel.org","name":"Long","password":"` + strings.Repeat("p", 80) + `"}`

	status, resp := s.do(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "password", resp["field"])
}
