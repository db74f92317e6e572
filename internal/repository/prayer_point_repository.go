package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type PrayerPointRepository interface {
	Create(ctx context.Context, p *models.PrayerPoint) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PrayerPoint, error)
	ListByFollower(ctx context.Context, followerID int64, status string) ([]*models.PrayerPoint, error)
	Update(ctx context.Context, p *models.PrayerPoint) (bool, error)
	SetStatus(ctx context.Context, id int64, status string, answeredAt *time.Time) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type prayerPointRepository struct {
	db *sqlx.DB
}

func NewPrayerPointRepository(db *sqlx.DB) PrayerPointRepository {
	return &prayerPointRepository{db: db}
}

const prayerPointColumns = `id, follower_id, title, description, status, answered_at, created_at, updated_at`

func (r *prayerPointRepository) Create(ctx context.Context, p *models.PrayerPoint) (int64, error) {
	id, err := insertNamed(ctx, r.db, `
		INSERT INTO prayer_points (follower_id, title, description, status)
		VALUES (:follower_id, :title, :description, :status)
		RETURNING id`, p)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *prayerPointRepository) GetByID(ctx context.Context, id int64) (*models.PrayerPoint, error) {
	p, err := getOne[models.PrayerPoint](ctx, r.db, `SELECT `+prayerPointColumns+` FROM prayer_points WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return p, err
}

func (r *prayerPointRepository) ListByFollower(ctx context.Context, followerID int64, status string) ([]*models.PrayerPoint, error) {
	points := []*models.PrayerPoint{}
	query := `
		SELECT ` + prayerPointColumns + `
		FROM prayer_points
		WHERE follower_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &points, query, followerID, status); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return points, nil
}

func (r *prayerPointRepository) Update(ctx context.Context, p *models.PrayerPoint) (bool, error) {
	ok, err := updateNamed(ctx, r.db, `
		UPDATE prayer_points
		SET title = :title, description = :description, updated_at = NOW()
		WHERE id = :id`, p)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}

func (r *prayerPointRepository) SetStatus(ctx context.Context, id int64, status string, answeredAt *time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE prayer_points SET status = $1, answered_at = $2, updated_at = NOW() WHERE id = $3`,
		status, answeredAt, id)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *prayerPointRepository) Remove(ctx context.Context, id int64) (bool, error) {
	ok, err := removeByID(ctx, r.db, "prayer_points", id)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}
