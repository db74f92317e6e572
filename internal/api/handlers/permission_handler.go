package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/service"
)

type PermissionHandler struct {
	s service.PermissionService
}

func NewPermissionHandler(service service.PermissionService) *PermissionHandler {
	return &PermissionHandler{s: service}
}

func (h *PermissionHandler) List(c *fiber.Ctx) error {
	rows, err := h.s.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, rows)
}

func (h *PermissionHandler) ListByRole(c *fiber.Ctx) error {
	role := c.Params("role")
	if !models.IsValidRole(role) {
		return badRequest(c, "unknown role")
	}

	rows, err := h.s.GetRolePermissions(c.UserContext(), role)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, rows)
}

func (h *PermissionHandler) Upsert(c *fiber.Ctx) error {
	var rp models.RolePermission
	if err := c.BodyParser(&rp); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	if err := h.s.Upsert(c.UserContext(), &rp); err != nil {
		return respondError(c, err)
	}
	return ok(c, rp)
}

func (h *PermissionHandler) Remove(c *fiber.Ctx) error {
	err := h.s.Delete(c.UserContext(), c.Params("role"), models.Resource(c.Params("resource")))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Permission removed"})
}

func (h *PermissionHandler) ClearCache(c *fiber.Ctx) error {
	if err := h.s.ClearPermissionsCache(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Permission cache cleared"})
}
