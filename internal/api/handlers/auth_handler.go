package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/gracechapel/ministry-api/configs"
	"github.com/gracechapel/ministry-api/internal/api/middleware"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type AuthHandler struct {
	s   service.AuthService
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  expires,
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req transfer.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	resp, err := h.s.Register(c.UserContext(), &req, c.IP())
	if err != nil {
		return respondError(c, err)
	}

	h.setCookie(c, resp.Token, resp.ExpiresAt)
	return created(c, resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req transfer.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	resp, err := h.s.Login(c.UserContext(), &req, c.IP())
	if err != nil {
		return respondError(c, err)
	}

	h.setCookie(c, resp.Token, resp.ExpiresAt)
	return ok(c, resp)
}

// Logout clears the session cookie. Tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return ok(c, middleware.CurrentUser(c))
}
