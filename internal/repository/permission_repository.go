package repository

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type PermissionRepository interface {
	ListByRole(ctx context.Context, role string) ([]*models.RolePermission, error)
	ListAll(ctx context.Context) ([]*models.RolePermission, error)
	Upsert(ctx context.Context, rp *models.RolePermission) error
	Remove(ctx context.Context, role string, resource models.Resource) (bool, error)
}

type permissionRepository struct {
	db *sqlx.DB
}

func NewPermissionRepository(db *sqlx.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

const permissionColumns = `id, role, resource, can_create, can_read, can_update, can_delete, created_at, updated_at`

func (r *permissionRepository) ListByRole(ctx context.Context, role string) ([]*models.RolePermission, error) {
	rows := []*models.RolePermission{}
	query := `SELECT ` + permissionColumns + ` FROM role_permissions WHERE role = $1 ORDER BY resource`
	if err := r.db.SelectContext(ctx, &rows, query, role); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return rows, nil
}

func (r *permissionRepository) ListAll(ctx context.Context) ([]*models.RolePermission, error) {
	rows := []*models.RolePermission{}
	query := `SELECT ` + permissionColumns + ` FROM role_permissions ORDER BY role, resource`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return rows, nil
}

func (r *permissionRepository) Upsert(ctx context.Context, rp *models.RolePermission) error {
	query := `
		INSERT INTO role_permissions (role, resource, can_create, can_read, can_update, can_delete)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (role, resource) DO UPDATE
		SET can_create = EXCLUDED.can_create,
			can_read = EXCLUDED.can_read,
			can_update = EXCLUDED.can_update,
			can_delete = EXCLUDED.can_delete,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, rp.Role, rp.Resource, rp.CanCreate, rp.CanRead, rp.CanUpdate, rp.CanDelete).
		Scan(&rp.ID, &rp.CreatedAt, &rp.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *permissionRepository) Remove(ctx context.Context, role string, resource models.Resource) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM role_permissions WHERE role = $1 AND resource = $2`, role, resource)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
