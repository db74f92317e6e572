package repository

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type SettingsRepository interface {
	List(ctx context.Context) ([]*models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, s *models.Setting) error
}

type settingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) List(ctx context.Context) ([]*models.Setting, error) {
	settings := []*models.Setting{}
	if err := r.db.SelectContext(ctx, &settings, `SELECT key, value, updated_by, updated_at FROM settings ORDER BY key`); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	s, err := getOne[models.Setting](ctx, r.db, `SELECT key, value, updated_by, updated_at FROM settings WHERE key = $1`, key)
	if err != nil {
		slog.Info(err.Error())
	}
	return s, err
}

func (r *settingsRepository) Upsert(ctx context.Context, s *models.Setting) error {
	query := `
		INSERT INTO settings (key, value, updated_by, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query, s.Key, s.Value, s.UpdatedBy).Scan(&s.UpdatedAt); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
