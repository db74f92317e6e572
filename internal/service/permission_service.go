package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/cache"
	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
)

// PermissionCheck names one resource operation.
type PermissionCheck struct {
	Resource   models.Resource
	Permission models.Permission
}

type PermissionService interface {
	GetRolePermissions(ctx context.Context, role string) ([]*models.RolePermission, error)
	HasPermission(ctx context.Context, user *models.User, resource models.Resource, permission models.Permission) (bool, error)
	HasAnyPermission(ctx context.Context, user *models.User, checks []PermissionCheck) (bool, error)
	HasAllPermissions(ctx context.Context, user *models.User, checks []PermissionCheck) (bool, error)
	ClearPermissionsCache(ctx context.Context) error

	ListAll(ctx context.Context) ([]*models.RolePermission, error)
	Upsert(ctx context.Context, rp *models.RolePermission) error
	Delete(ctx context.Context, role string, resource models.Resource) error
}

type permissionService struct {
	pr    repository.PermissionRepository
	cache cache.PermissionCache
}

func NewPermissionService(pr repository.PermissionRepository, c cache.PermissionCache) PermissionService {
	return &permissionService{pr: pr, cache: c}
}

func (s *permissionService) GetRolePermissions(ctx context.Context, role string) ([]*models.RolePermission, error) {
	rows, ok, err := s.cache.Get(ctx, role)
	if err != nil {
		slog.Warn("permission cache read failed", "role", role, "error", err)
	} else if ok {
		return rows, nil
	}

	rows, err = s.pr.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("load permissions for %s: %w", role, err)
	}

	if err := s.cache.Set(ctx, role, rows); err != nil {
		slog.Warn("permission cache write failed", "role", role, "error", err)
	}
	return rows, nil
}

func (s *permissionService) HasPermission(ctx context.Context, user *models.User, resource models.Resource, permission models.Permission) (bool, error) {
	if user == nil {
		return false, nil
	}

	rows, err := s.GetRolePermissions(ctx, user.Role)
	if err != nil {
		return false, err
	}

	for _, row := range rows {
		if row.Resource == resource {
			return row.Allows(permission), nil
		}
	}
	return false, nil
}

func (s *permissionService) HasAnyPermission(ctx context.Context, user *models.User, checks []PermissionCheck) (bool, error) {
	for _, check := range checks {
		ok, err := s.HasPermission(ctx, user, check.Resource, check.Permission)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *permissionService) HasAllPermissions(ctx context.Context, user *models.User, checks []PermissionCheck) (bool, error) {
	for _, check := range checks {
		ok, err := s.HasPermission(ctx, user, check.Resource, check.Permission)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s *permissionService) ClearPermissionsCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

func (s *permissionService) ListAll(ctx context.Context) ([]*models.RolePermission, error) {
	return s.pr.ListAll(ctx)
}

func (s *permissionService) Upsert(ctx context.Context, rp *models.RolePermission) error {
	if !models.IsValidRole(rp.Role) {
		return invalid("role", "unknown role")
	}
	if !models.IsValidResource(rp.Resource) {
		return invalid("resource", "unknown resource")
	}

	if err := s.pr.Upsert(ctx, rp); err != nil {
		return err
	}
	return s.ClearPermissionsCache(ctx)
}

func (s *permissionService) Delete(ctx context.Context, role string, resource models.Resource) error {
	found, err := s.pr.Remove(ctx, role, resource)
	if err := notFoundUnless(found, err); err != nil {
		return err
	}
	return s.ClearPermissionsCache(ctx)
}
