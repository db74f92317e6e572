package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type SettingsHandler struct {
	s service.SettingsService
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{s: service}
}

func (h *SettingsHandler) List(c *fiber.Ctx) error {
	settings, err := h.s.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, settings)
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	setting, err := h.s.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, setting)
}

func (h *SettingsHandler) UpdateSetting(c *fiber.Ctx) error {
	var body transfer.SettingUpdate
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	setting, err := h.s.UpdateSetting(c.UserContext(), actor(c), c.Params("key"), body.Value)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, setting)
}
