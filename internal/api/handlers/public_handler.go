package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/service"
)

// PublicHandler serves the unauthenticated website content.
type PublicHandler struct {
	blogs  service.BlogService
	events service.EventService
	team   service.TeamService
}

func NewPublicHandler(blogs service.BlogService, events service.EventService, team service.TeamService) *PublicHandler {
	return &PublicHandler{blogs: blogs, events: events, team: team}
}

func (h *PublicHandler) Blogs(c *fiber.Ctx) error {
	blogs, err := h.blogs.ListPublished(c.UserContext(), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, blogs)
}

func (h *PublicHandler) Blog(c *fiber.Ctx) error {
	blog, err := h.blogs.GetPublished(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, blog)
}

func (h *PublicHandler) Events(c *fiber.Ctx) error {
	events, err := h.events.Upcoming(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, events)
}

func (h *PublicHandler) Team(c *fiber.Ctx) error {
	members, err := h.team.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, members)
}
