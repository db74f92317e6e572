package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type SocialAccountHandler struct {
	s service.SocialAccountService
}

func NewSocialAccountHandler(service service.SocialAccountService) *SocialAccountHandler {
	return &SocialAccountHandler{s: service}
}

func (h *SocialAccountHandler) List(c *fiber.Ctx) error {
	accounts, err := h.s.List(c.UserContext(), c.Query("platform"), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, accounts)
}

func (h *SocialAccountHandler) Get(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	account, err := h.s.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, account)
}

func (h *SocialAccountHandler) Create(c *fiber.Ctx) error {
	var ac transfer.AccountCreation
	if err := c.BodyParser(&ac); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	account, err := h.s.Create(c.UserContext(), actor(c), &ac)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, account)
}

func (h *SocialAccountHandler) Update(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}
	var au transfer.AccountUpdate
	if err := c.BodyParser(&au); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	account, err := h.s.Update(c.UserContext(), actor(c), id, &au)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, account)
}

func (h *SocialAccountHandler) Remove(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	archived, err := h.s.Delete(c.UserContext(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	if archived {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message":  "Account has published posts and was deactivated",
			"archived": true,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Account deleted", "archived": false})
}
