package repository

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type TeamRepository interface {
	Create(ctx context.Context, m *models.TeamMember) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.TeamMember, error)
	List(ctx context.Context) ([]*models.TeamMember, error)
	Update(ctx context.Context, m *models.TeamMember) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type teamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) TeamRepository {
	return &teamRepository{db: db}
}

const teamColumns = `id, name, position, bio, photo_url, email, display_order, created_at, updated_at`

func (r *teamRepository) Create(ctx context.Context, m *models.TeamMember) (int64, error) {
	id, err := insertNamed(ctx, r.db, `
		INSERT INTO team_members (name, position, bio, photo_url, email, display_order)
		VALUES (:name, :position, :bio, :photo_url, :email, :display_order)
		RETURNING id`, m)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*models.TeamMember, error) {
	m, err := getOne[models.TeamMember](ctx, r.db, `SELECT `+teamColumns+` FROM team_members WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return m, err
}

// List returns the whole team; it is small enough to skip paging.
func (r *teamRepository) List(ctx context.Context) ([]*models.TeamMember, error) {
	members := []*models.TeamMember{}
	query := `SELECT ` + teamColumns + ` FROM team_members ORDER BY display_order, name`
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return members, nil
}

func (r *teamRepository) Update(ctx context.Context, m *models.TeamMember) (bool, error) {
	ok, err := updateNamed(ctx, r.db, `
		UPDATE team_members
		SET name = :name,
			position = :position,
			bio = :bio,
			photo_url = :photo_url,
			email = :email,
			display_order = :display_order,
			updated_at = NOW()
		WHERE id = :id`, m)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}

func (r *teamRepository) Remove(ctx context.Context, id int64) (bool, error) {
	ok, err := removeByID(ctx, r.db, "team_members", id)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}
