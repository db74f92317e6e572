package repository

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type NoteRepository interface {
	Create(ctx context.Context, n *models.Note) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	List(ctx context.Context, category string, page transfer.Page) ([]*models.Note, error)
	Update(ctx context.Context, n *models.Note) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

const noteColumns = `id, title, content, category, is_pinned, created_by, created_at, updated_at`

func (r *noteRepository) Create(ctx context.Context, n *models.Note) (int64, error) {
	id, err := insertNamed(ctx, r.db, `
		INSERT INTO notes (title, content, category, is_pinned, created_by)
		VALUES (:title, :content, :category, :is_pinned, :created_by)
		RETURNING id`, n)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *noteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	n, err := getOne[models.Note](ctx, r.db, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return n, err
}

func (r *noteRepository) List(ctx context.Context, category string, page transfer.Page) ([]*models.Note, error) {
	notes := []*models.Note{}
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE ($1 = '' OR category = $1)
		ORDER BY is_pinned DESC, updated_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &notes, query, category, page.Limit, page.Offset); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, n *models.Note) (bool, error) {
	ok, err := updateNamed(ctx, r.db, `
		UPDATE notes
		SET title = :title, content = :content, category = :category, is_pinned = :is_pinned, updated_at = NOW()
		WHERE id = :id`, n)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}

func (r *noteRepository) Remove(ctx context.Context, id int64) (bool, error) {
	ok, err := removeByID(ctx, r.db, "notes", id)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}
