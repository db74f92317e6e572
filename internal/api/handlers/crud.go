package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/service"
)

type crudService[T any] interface {
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, actor service.Actor, v *T) (*T, error)
	Update(ctx context.Context, actor service.Actor, v *T) (*T, error)
	Remove(ctx context.Context, actor service.Actor, id int64) error
}

// crud serves get, create, partial update and delete for a resource
// whose fields are edited directly.
type crud[T any] struct {
	s     crudService[T]
	setID func(v *T, id int64)
	name  string
}

func (h *crud[T]) Get(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	v, err := h.s.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, v)
}

func (h *crud[T]) Create(c *fiber.Ctx) error {
	v := new(T)
	if err := c.BodyParser(v); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	out, err := h.s.Create(c.UserContext(), actor(c), v)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out)
}

// Update applies the body on top of the stored record, so omitted fields
// keep their values.
func (h *crud[T]) Update(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	v, err := h.s.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if err := c.BodyParser(v); err != nil {
		return badRequest(c, "Unable to parse json")
	}
	h.setID(v, id)

	out, err := h.s.Update(c.UserContext(), actor(c), v)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

func (h *crud[T]) Remove(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	if err := h.s.Remove(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": h.name + " deleted"})
}
