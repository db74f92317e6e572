package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/service"
)

type ActivityHandler struct {
	s service.ActivityService
}

func NewActivityHandler(service service.ActivityService) *ActivityHandler {
	return &ActivityHandler{s: service}
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	userID, err := queryInt64(c, "user_id")
	if err != nil {
		return respondError(c, err)
	}

	filter := repository.ActivityFilter{
		UserID:       userID,
		ResourceType: c.Query("resource_type"),
		Action:       c.Query("action"),
	}
	logs, err := h.s.List(c.UserContext(), filter, page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, logs)
}
