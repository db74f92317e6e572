package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type AnalyticsHandler struct {
	s service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{s: service}
}

func (h *AnalyticsHandler) List(c *fiber.Ctx) error {
	postID, err := queryInt64(c, "post_id")
	if err != nil {
		return respondError(c, err)
	}
	from, err := queryTime(c, "date_from")
	if err != nil {
		return respondError(c, err)
	}
	to, err := queryTime(c, "date_to")
	if err != nil {
		return respondError(c, err)
	}

	rows, err := h.s.List(c.UserContext(), repository.AnalyticsFilter{
		PostID:   postID,
		Platform: c.Query("platform"),
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, rows)
}

func (h *AnalyticsHandler) Record(c *fiber.Ctx) error {
	var in transfer.AnalyticsInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	row, err := h.s.Record(c.UserContext(), actor(c), &in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, row)
}
