package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/api/middleware"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

// respondError maps service errors to status codes. Unexpected errors are
// logged and reported generically.
func respondError(c *fiber.Ctx, err error) error {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validation.Error(),
			"field": validation.Field,
		})
	case errors.Is(err, service.ErrNothingToPublish):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nothing to publish"})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, service.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func ok(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

// actor identifies the authenticated caller for the activity log.
func actor(c *fiber.Ctx) service.Actor {
	a := service.Actor{IP: c.IP()}
	if user := middleware.CurrentUser(c); user != nil {
		a.UserID = user.ID
		a.Role = user.Role
	}
	return a
}

func idParam(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func page(c *fiber.Ctx) transfer.Page {
	return transfer.NewPage(c.QueryInt("limit", transfer.DefaultPageSize), c.QueryInt("offset", 0))
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &service.ValidationError{Field: key, Message: "must be an integer"}
	}
	return &v, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, &service.ValidationError{Field: key, Message: "must be a date or RFC 3339 timestamp"}
}
