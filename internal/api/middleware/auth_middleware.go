package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/service"
)

type AuthErrorKind int

const (
	Unauthenticated AuthErrorKind = iota + 1
	Forbidden
)

// AuthError is a denial from the gate.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Status() int {
	if e.Kind == Forbidden {
		return fiber.StatusForbidden
	}
	return fiber.StatusUnauthorized
}

func unauthenticated(msg string) error {
	return &AuthError{Kind: Unauthenticated, Message: msg}
}

func forbidden(msg string) error {
	return &AuthError{Kind: Forbidden, Message: msg}
}

// UserFinder loads the live user record behind a token.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
}

// Gate authenticates tokens and enforces roles and permissions.
type Gate struct {
	tokens     service.TokenService
	users      UserFinder
	perms      service.PermissionService
	cookieName string
}

func NewGate(tokens service.TokenService, users UserFinder, perms service.PermissionService, cookieName string) *Gate {
	return &Gate{
		tokens:     tokens,
		users:      users,
		perms:      perms,
		cookieName: cookieName,
	}
}

// RequireAuth resolves token to the current user record. A valid token
// for a deleted user is treated as unauthenticated.
func (g *Gate) RequireAuth(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, unauthenticated("authentication required")
	}

	claims := g.tokens.Verify(token)
	if claims == nil {
		return nil, unauthenticated("invalid or expired token")
	}

	user, found, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, unauthenticated("user no longer exists")
	}
	return user, nil
}

func (g *Gate) RequireRole(ctx context.Context, token string, roles ...string) (*models.User, error) {
	user, err := g.RequireAuth(ctx, token)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, forbidden("insufficient role")
}

func (g *Gate) RequirePermission(ctx context.Context, token string, resource models.Resource, permission models.Permission) (*models.User, error) {
	user, err := g.RequireAuth(ctx, token)
	if err != nil {
		return nil, err
	}

	ok, err := g.perms.HasPermission(ctx, user, resource, permission)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden("insufficient permissions")
	}
	return user, nil
}

// Token reads the bearer token, falling back to the session cookie.
func (g *Gate) Token(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	return c.Cookies(g.cookieName)
}

const userLocalKey = "user"

func (g *Gate) handle(check func(ctx context.Context, token string) (*models.User, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := check(c.UserContext(), g.Token(c))
		if err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) {
				return c.Status(authErr.Status()).JSON(fiber.Map{
					"error": authErr.Message,
				})
			}

			slog.Error("authorization check failed", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

func (g *Gate) Authenticated() fiber.Handler {
	return g.handle(g.RequireAuth)
}

func (g *Gate) WithRole(roles ...string) fiber.Handler {
	return g.handle(func(ctx context.Context, token string) (*models.User, error) {
		return g.RequireRole(ctx, token, roles...)
	})
}

func (g *Gate) WithPermission(resource models.Resource, permission models.Permission) fiber.Handler {
	return g.handle(func(ctx context.Context, token string) (*models.User, error) {
		return g.RequirePermission(ctx, token, resource, permission)
	})
}

// CurrentUser returns the user stored by a gate handler, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
