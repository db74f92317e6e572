package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/service"
)

type NoteHandler struct {
	*crud[models.Note]
	s service.NoteService
}

func NewNoteHandler(service service.NoteService) *NoteHandler {
	return &NoteHandler{
		crud: &crud[models.Note]{s: service, name: "Note", setID: func(n *models.Note, id int64) { n.ID = id }},
		s:    service,
	}
}

func (h *NoteHandler) List(c *fiber.Ctx) error {
	notes, err := h.s.List(c.UserContext(), c.Query("category"), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, notes)
}

type BlogHandler struct {
	*crud[models.Blog]
	s service.BlogService
}

func NewBlogHandler(service service.BlogService) *BlogHandler {
	return &BlogHandler{
		crud: &crud[models.Blog]{s: service, name: "Blog", setID: func(b *models.Blog, id int64) { b.ID = id }},
		s:    service,
	}
}

func (h *BlogHandler) List(c *fiber.Ctx) error {
	blogs, err := h.s.List(c.UserContext(), c.Query("status"), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, blogs)
}

type EventHandler struct {
	*crud[models.Event]
	s service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{
		crud: &crud[models.Event]{s: service, name: "Event", setID: func(e *models.Event, id int64) { e.ID = id }},
		s:    service,
	}
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.s.List(c.UserContext(), c.Query("status"), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, events)
}

type TeamHandler struct {
	*crud[models.TeamMember]
	s service.TeamService
}

func NewTeamHandler(service service.TeamService) *TeamHandler {
	return &TeamHandler{
		crud: &crud[models.TeamMember]{s: service, name: "Team member", setID: func(m *models.TeamMember, id int64) { m.ID = id }},
		s:    service,
	}
}

func (h *TeamHandler) List(c *fiber.Ctx) error {
	members, err := h.s.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, members)
}

type ProphecyHandler struct {
	*crud[models.Prophecy]
	s service.ProphecyService
}

func NewProphecyHandler(service service.ProphecyService) *ProphecyHandler {
	return &ProphecyHandler{
		crud: &crud[models.Prophecy]{s: service, name: "Prophecy", setID: func(p *models.Prophecy, id int64) { p.ID = id }},
		s:    service,
	}
}

func (h *ProphecyHandler) List(c *fiber.Ctx) error {
	prophecies, err := h.s.List(c.UserContext(), c.Query("category"), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, prophecies)
}
