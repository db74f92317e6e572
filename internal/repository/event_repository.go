package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, status string, page transfer.Page) ([]*models.Event, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Event, error)
	Update(ctx context.Context, e *models.Event) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, title, slug, description, location, starts_at, ends_at, image_url, status, created_by, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *models.Event) (int64, error) {
	id, err := insertNamed(ctx, r.db, `
		INSERT INTO events (title, slug, description, location, starts_at, ends_at, image_url, status, created_by)
		VALUES (:title, :slug, :description, :location, :starts_at, :ends_at, :image_url, :status, :created_by)
		RETURNING id`, e)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, err := getOne[models.Event](ctx, r.db, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return e, err
}

func (r *eventRepository) List(ctx context.Context, status string, page transfer.Page) ([]*models.Event, error) {
	events := []*models.Event{}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE ($1 = '' OR status = $1)
		ORDER BY starts_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &events, query, status, page.Limit, page.Offset); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Event, error) {
	events := []*models.Event{}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1 AND COALESCE(ends_at, starts_at) >= $2
		ORDER BY starts_at
		LIMIT $3
	`
	if err := r.db.SelectContext(ctx, &events, query, models.EventStatusPublished, from, limit); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, e *models.Event) (bool, error) {
	ok, err := updateNamed(ctx, r.db, `
		UPDATE events
		SET title = :title,
			slug = :slug,
			description = :description,
			location = :location,
			starts_at = :starts_at,
			ends_at = :ends_at,
			image_url = :image_url,
			status = :status,
			updated_at = NOW()
		WHERE id = :id`, e)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}

func (r *eventRepository) Remove(ctx context.Context, id int64) (bool, error) {
	ok, err := removeByID(ctx, r.db, "events", id)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}
