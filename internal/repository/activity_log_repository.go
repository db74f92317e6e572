package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type ActivityFilter struct {
	UserID       *int64
	ResourceType string
	Action       string
}

// ActivityLogRepository is append-only.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) (int64, error)
	List(ctx context.Context, filter ActivityFilter, page transfer.Page) ([]*models.ActivityLog, error)
}

type activityLogRepository struct {
	db *sqlx.DB
}

func NewActivityLogRepository(db *sqlx.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) (int64, error) {
	query := `
		INSERT INTO activity_logs (user_id, action, resource_type, resource_id, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID, entry.Details, entry.IPAddress).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityFilter, page transfer.Page) ([]*models.ActivityLog, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.ResourceType != "" {
		args = append(args, filter.ResourceType)
		where = append(where, fmt.Sprintf("resource_type = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}

	query := `SELECT id, user_id, action, resource_type, resource_id, details, ip_address, created_at FROM activity_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	logs := []*models.ActivityLog{}
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return logs, nil
}
