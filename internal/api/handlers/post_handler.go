package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type PostHandler struct {
	s service.PostService
	p service.PublishService
}

func NewPostHandler(service service.PostService, publish service.PublishService) *PostHandler {
	return &PostHandler{s: service, p: publish}
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	posts, err := h.s.List(c.UserContext(), c.Query("status"), page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, posts)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	post, err := h.s.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, post)
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	post, err := h.s.Create(c.UserContext(), actor(c), &pc)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, post)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}
	var pu transfer.PostUpdate
	if err := c.BodyParser(&pu); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	post, err := h.s.Update(c.UserContext(), actor(c), id, &pu)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, post)
}

func (h *PostHandler) Remove(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	archived, err := h.s.Remove(c.UserContext(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	if archived {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message":  "Post was already published and has been archived",
			"archived": true,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Post deleted", "archived": false})
}

func (h *PostHandler) Publish(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	resp, err := h.p.Publish(c.UserContext(), id, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
