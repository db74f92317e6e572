package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type FollowerHandler struct {
	*crud[models.Follower]
	s service.FollowerService
}

func NewFollowerHandler(service service.FollowerService) *FollowerHandler {
	return &FollowerHandler{
		crud: &crud[models.Follower]{s: service, name: "Follower", setID: func(f *models.Follower, id int64) { f.ID = id }},
		s:    service,
	}
}

func (h *FollowerHandler) List(c *fiber.Ctx) error {
	familyID, err := queryInt64(c, "family_id")
	if err != nil {
		return respondError(c, err)
	}

	followers, err := h.s.List(c.UserContext(), repository.FollowerFilter{
		FamilyID: familyID,
		Search:   c.Query("search"),
	}, page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, followers)
}

type FamilyHandler struct {
	*crud[models.Family]
	s service.FamilyService
}

func NewFamilyHandler(service service.FamilyService) *FamilyHandler {
	return &FamilyHandler{
		crud: &crud[models.Family]{s: service, name: "Family", setID: func(f *models.Family, id int64) { f.ID = id }},
		s:    service,
	}
}

func (h *FamilyHandler) List(c *fiber.Ctx) error {
	families, err := h.s.List(c.UserContext(), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, families)
}

type PrayerPointHandler struct {
	*crud[models.PrayerPoint]
	s service.PrayerPointService
}

func NewPrayerPointHandler(service service.PrayerPointService) *PrayerPointHandler {
	return &PrayerPointHandler{
		crud: &crud[models.PrayerPoint]{s: service, name: "Prayer point", setID: func(p *models.PrayerPoint, id int64) { p.ID = id }},
		s:    service,
	}
}

func (h *PrayerPointHandler) ListByFollower(c *fiber.Ctx) error {
	followerID, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	points, err := h.s.ListByFollower(c.UserContext(), followerID, c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, points)
}

func (h *PrayerPointHandler) CreateForFollower(c *fiber.Ctx) error {
	followerID, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}
	var p models.PrayerPoint
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "Unable to parse json")
	}
	p.FollowerID = followerID

	point, err := h.s.Create(c.UserContext(), actor(c), &p)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, point)
}

func (h *PrayerPointHandler) SetStatus(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}
	var body transfer.PrayerStatusUpdate
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	point, err := h.s.SetStatus(c.UserContext(), actor(c), id, body.Status)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, point)
}
