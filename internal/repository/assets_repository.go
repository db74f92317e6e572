package repository

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type MediaAssetRepository interface {
	Create(ctx context.Context, ma *models.MediaAsset) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.MediaAsset, error)
	ListByKind(ctx context.Context, kind string, page transfer.Page) ([]*models.MediaAsset, error)
	Remove(ctx context.Context, id int64) error
}

type mediaAssetRepository struct {
	db *sqlx.DB
}

func NewMediaAssetRepository(db *sqlx.DB) MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

const mediaColumns = `id, kind, file_name, file_type, file_size, file_url, caption, uploaded_by, created_at`

func (r *mediaAssetRepository) Create(ctx context.Context, ma *models.MediaAsset) (int64, error) {
	id, err := insertNamed(ctx, r.db, `
		INSERT INTO media_assets (kind, file_name, file_type, file_size, file_url, caption, uploaded_by)
		VALUES (:kind, :file_name, :file_type, :file_size, :file_url, :caption, :uploaded_by)
		RETURNING id`, ma)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, id int64) (*models.MediaAsset, error) {
	ma, err := getOne[models.MediaAsset](ctx, r.db, `SELECT `+mediaColumns+` FROM media_assets WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return ma, err
}

func (r *mediaAssetRepository) ListByKind(ctx context.Context, kind string, page transfer.Page) ([]*models.MediaAsset, error) {
	assets := []*models.MediaAsset{}
	query := `SELECT ` + mediaColumns + ` FROM media_assets WHERE kind = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &assets, query, kind, page.Limit, page.Offset); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return assets, nil
}

func (r *mediaAssetRepository) Remove(ctx context.Context, id int64) error {
	if _, err := removeByID(ctx, r.db, "media_assets", id); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
