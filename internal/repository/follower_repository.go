package repository

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type FollowerFilter struct {
	FamilyID *int64
	Search   string
}

type FollowerRepository interface {
	Create(ctx context.Context, f *models.Follower) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Follower, error)
	List(ctx context.Context, filter FollowerFilter, page transfer.Page) ([]*models.Follower, error)
	Update(ctx context.Context, f *models.Follower) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type followerRepository struct {
	db *sqlx.DB
}

func NewFollowerRepository(db *sqlx.DB) FollowerRepository {
	return &followerRepository{db: db}
}

const followerColumns = `id, family_id, first_name, last_name, email, phone, address, notes, created_at, updated_at`

func (r *followerRepository) Create(ctx context.Context, f *models.Follower) (int64, error) {
	id, err := insertNamed(ctx, r.db, `
		INSERT INTO followers (family_id, first_name, last_name, email, phone, address, notes)
		VALUES (:family_id, :first_name, :last_name, :email, :phone, :address, :notes)
		RETURNING id`, f)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *followerRepository) GetByID(ctx context.Context, id int64) (*models.Follower, error) {
	f, err := getOne[models.Follower](ctx, r.db, `SELECT `+followerColumns+` FROM followers WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return f, err
}

func (r *followerRepository) List(ctx context.Context, filter FollowerFilter, page transfer.Page) ([]*models.Follower, error) {
	followers := []*models.Follower{}
	query := `
		SELECT ` + followerColumns + `
		FROM followers
		WHERE ($1::BIGINT IS NULL OR family_id = $1)
			AND ($2 = '' OR first_name ILIKE '%' || $2 || '%' OR last_name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
		ORDER BY last_name, first_name
		LIMIT $3 OFFSET $4
	`
	err := r.db.SelectContext(ctx, &followers, query, filter.FamilyID, filter.Search, page.Limit, page.Offset)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return followers, nil
}

func (r *followerRepository) Update(ctx context.Context, f *models.Follower) (bool, error) {
	ok, err := updateNamed(ctx, r.db, `
		UPDATE followers
		SET family_id = :family_id,
			first_name = :first_name,
			last_name = :last_name,
			email = :email,
			phone = :phone,
			address = :address,
			notes = :notes,
			updated_at = NOW()
		WHERE id = :id`, f)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}

func (r *followerRepository) Remove(ctx context.Context, id int64) (bool, error) {
	ok, err := removeByID(ctx, r.db, "followers", id)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}
