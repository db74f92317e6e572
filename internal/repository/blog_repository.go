package repository

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type BlogRepository interface {
	Create(ctx context.Context, b *models.Blog) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	List(ctx context.Context, status string, page transfer.Page) ([]*models.Blog, error)
	Update(ctx context.Context, b *models.Blog) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type blogRepository struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) BlogRepository {
	return &blogRepository{db: db}
}

const blogColumns = `id, title, slug, excerpt, content, cover_image_url, status, published_at, created_by, created_at, updated_at`

func (r *blogRepository) Create(ctx context.Context, b *models.Blog) (int64, error) {
	id, err := insertNamed(ctx, r.db, `
		INSERT INTO blogs (title, slug, excerpt, content, cover_image_url, status, published_at, created_by)
		VALUES (:title, :slug, :excerpt, :content, :cover_image_url, :status, :published_at, :created_by)
		RETURNING id`, b)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *blogRepository) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	b, err := getOne[models.Blog](ctx, r.db, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return b, err
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	b, err := getOne[models.Blog](ctx, r.db, `SELECT `+blogColumns+` FROM blogs WHERE slug = $1`, slug)
	if err != nil {
		slog.Info(err.Error())
	}
	return b, err
}

func (r *blogRepository) List(ctx context.Context, status string, page transfer.Page) ([]*models.Blog, error) {
	blogs := []*models.Blog{}
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE ($1 = '' OR status = $1)
		ORDER BY COALESCE(published_at, created_at) DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &blogs, query, status, page.Limit, page.Offset); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) Update(ctx context.Context, b *models.Blog) (bool, error) {
	ok, err := updateNamed(ctx, r.db, `
		UPDATE blogs
		SET title = :title,
			slug = :slug,
			excerpt = :excerpt,
			content = :content,
			cover_image_url = :cover_image_url,
			status = :status,
			published_at = :published_at,
			updated_at = NOW()
		WHERE id = :id`, b)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}

func (r *blogRepository) Remove(ctx context.Context, id int64) (bool, error) {
	ok, err := removeByID(ctx, r.db, "blogs", id)
	if err != nil {
		slog.Info(err.Error())
	}
	return ok, err
}
