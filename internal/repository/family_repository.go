package repository

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type FamilyRepository interface {
	Create(ctx context.Context, f *models.Family) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Family, error)
	List(ctx context.Context, page transfer.Page) ([]*models.Family, error)
	Update(ctx context.Context, f *models.Family) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type familyRepository struct {
	db *sqlx.DB
}

func NewFamilyRepository(db *sqlx.DB) FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) Create(ctx context.Context, f *models.Family) (int64, error) {
	id, err := insertNamed(ctx, r.db,
		`INSERT INTO families (name, notes) VALUES (:name, :notes) RETURNING id`, f)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *familyRepository) GetByID(ctx context.Context, id int64) (*models.Family, error) {
	f, err := getOne[models.Family](ctx, r.db,
		`SELECT id, name, notes, created_at, updated_at FROM families WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return f, err
}

func (r *familyRepository) List(ctx context.Context, page transfer.Page) ([]*models.Family, error) {
	families := []*models.Family{}
	query := `SELECT id, name, notes, created_at, updated_at FROM families ORDER BY name LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &families, query, page.Limit, page.Offset); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return families, nil
}

func (r *familyRepository) Update(ctx context.Context, f *models.Family) (bool, error) {
	ok, err := updateNamed(ctx, r.db,
		`UPDATE families SET name = :name, notes = :notes, updated_at = NOW() WHERE id = :id`, f)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}

func (r *familyRepository) Remove(ctx context.Context, id int64) (bool, error) {
	ok, err := removeByID(ctx, r.db, "families", id)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}
