// Package cache holds the role permission cache backends.
package cache

import (
	"context"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
)

// PermissionCache stores a role's permission rows for a bounded time.
// Writes to the underlying table are not observed until the entry
// expires or Clear is called.
type PermissionCache interface {
	Get(ctx context.Context, role string) ([]*models.RolePermission, bool, error)
	Set(ctx context.Context, role string, rows []*models.RolePermission) error
	Clear(ctx context.Context) error
}

// Clock returns the current time. Tests substitute a manual clock.
type Clock func() time.Time
