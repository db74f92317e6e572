package service

import (
	"errors"
	"strings"
	"time"

	"github.com/gracechapel/ministry-api/internal/repository"
)

// Actor identifies who performs a mutation, for the activity log.
type Actor struct {
	UserID int64
	Role   string
	IP     string
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}
	return nil
}

// conflictOr maps duplicate key errors to ErrConflict.
func conflictOr(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrConflict
	}
	return err
}

func notFoundUnless(found bool, err error) error {
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

var now = time.Now
