package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.s.List(c.UserContext(), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	user, err := h.s.GetUserInfo(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, user)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var uc transfer.UserCreation
	if err := c.BodyParser(&uc); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	user, err := h.s.Create(c.UserContext(), actor(c), &uc)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}
	var uu transfer.UserUpdate
	if err := c.BodyParser(&uu); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	user, err := h.s.Update(c.UserContext(), actor(c), id, &uu)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, user)
}

func (h *UserHandler) Remove(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	if err := h.s.RemoveUser(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User deleted"})
}
