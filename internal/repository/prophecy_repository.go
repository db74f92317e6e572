package repository

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type ProphecyRepository interface {
	Create(ctx context.Context, p *models.Prophecy) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Prophecy, error)
	List(ctx context.Context, category string, page transfer.Page) ([]*models.Prophecy, error)
	Update(ctx context.Context, p *models.Prophecy) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type prophecyRepository struct {
	db *sqlx.DB
}

func NewProphecyRepository(db *sqlx.DB) ProphecyRepository {
	return &prophecyRepository{db: db}
}

const prophecyColumns = `id, title, content, prophet, delivered_on, category, created_by, created_at, updated_at`

func (r *prophecyRepository) Create(ctx context.Context, p *models.Prophecy) (int64, error) {
	id, err := insertNamed(ctx, r.db, `
		INSERT INTO prophecies (title, content, prophet, delivered_on, category, created_by)
		VALUES (:title, :content, :prophet, :delivered_on, :category, :created_by)
		RETURNING id`, p)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *prophecyRepository) GetByID(ctx context.Context, id int64) (*models.Prophecy, error) {
	p, err := getOne[models.Prophecy](ctx, r.db, `SELECT `+prophecyColumns+` FROM prophecies WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return p, err
}

func (r *prophecyRepository) List(ctx context.Context, category string, page transfer.Page) ([]*models.Prophecy, error) {
	prophecies := []*models.Prophecy{}
	query := `
		SELECT ` + prophecyColumns + `
		FROM prophecies
		WHERE ($1 = '' OR category = $1)
		ORDER BY delivered_on DESC NULLS LAST, created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &prophecies, query, category, page.Limit, page.Offset); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return prophecies, nil
}

func (r *prophecyRepository) Update(ctx context.Context, p *models.Prophecy) (bool, error) {
	ok, err := updateNamed(ctx, r.db, `
		UPDATE prophecies
		SET title = :title,
			content = :content,
			prophet = :prophet,
			delivered_on = :delivered_on,
			category = :category,
			updated_at = NOW()
		WHERE id = :id`, p)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}

func (r *prophecyRepository) Remove(ctx context.Context, id int64) (bool, error) {
	ok, err := removeByID(ctx, r.db, "prophecies", id)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}
