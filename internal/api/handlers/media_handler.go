package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/service"
)

// MediaHandler serves one media kind (media library or gallery).
type MediaHandler struct {
	s    service.MediaService
	kind string
}

func NewMediaHandler(service service.MediaService, kind string) *MediaHandler {
	return &MediaHandler{s: service, kind: kind}
}

func (h *MediaHandler) List(c *fiber.Ctx) error {
	assets, err := h.s.List(c.UserContext(), h.kind, page(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, assets)
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		slog.Info(err.Error())
		return badRequest(c, "No file selected")
	}

	f, err := file.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, err)
	}

	asset, err := h.s.Upload(c.UserContext(), actor(c), h.kind, service.Upload{
		Name:    file.Filename,
		Data:    data,
		Caption: c.FormValue("caption"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return created(c, asset)
}

func (h *MediaHandler) Remove(c *fiber.Ctx) error {
	id, valid := idParam(c, "id")
	if !valid {
		return badRequest(c, "invalid id")
	}

	if err := h.s.Remove(c.UserContext(), actor(c), h.kind, id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "File deleted"})
}
