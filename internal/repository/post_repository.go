package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type PostRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, post *models.SocialPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SocialPost, error)
	List(ctx context.Context, status string, page transfer.Page) ([]*models.SocialPost, error)
	Update(ctx context.Context, tx *sqlx.Tx, post *models.SocialPost) error
	UpdatePostStatus(ctx context.Context, status string, postID int64) error
	SetOutcome(ctx context.Context, postID int64, status string, publishedAt *time.Time) error
	ListStuckPublishing(ctx context.Context, updatedBefore time.Time) ([]*models.SocialPost, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, title, content, media_urls, media_type, status, scheduled_at, published_at, created_by, created_at, updated_at`

func (r *postRepository) Create(ctx context.Context, tx *sqlx.Tx, post *models.SocialPost) (int64, error) {
	query := `
		INSERT INTO social_media_posts (title, content, media_urls, media_type, status, scheduled_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := queryer(r.db, tx).QueryRowxContext(ctx, query,
		post.Title, post.Content, post.MediaURLs, post.MediaType, post.Status, post.ScheduledAt, post.CreatedBy).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.SocialPost, error) {
	var post models.SocialPost
	err := r.db.GetContext(ctx, &post, `SELECT `+postColumns+` FROM social_media_posts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, status string, page transfer.Page) ([]*models.SocialPost, error) {
	posts := []*models.SocialPost{}
	query := `
		SELECT ` + postColumns + `
		FROM social_media_posts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &posts, query, status, page.Limit, page.Offset); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, tx *sqlx.Tx, post *models.SocialPost) error {
	query := `
		UPDATE social_media_posts
		SET title = $1,
			content = $2,
			media_urls = $3,
			media_type = $4,
			status = $5,
			scheduled_at = $6,
			updated_at = NOW()
		WHERE id = $7
	`
	_, err := queryer(r.db, tx).ExecContext(ctx, query,
		post.Title, post.Content, post.MediaURLs, post.MediaType, post.Status, post.ScheduledAt, post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdatePostStatus(ctx context.Context, status string, postID int64) error {
	query := `
		UPDATE social_media_posts
		SET status = $1,
			updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, status, postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) SetOutcome(ctx context.Context, postID int64, status string, publishedAt *time.Time) error {
	query := `
		UPDATE social_media_posts
		SET status = $1,
			published_at = COALESCE($2, published_at),
			updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, publishedAt, postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) ListStuckPublishing(ctx context.Context, updatedBefore time.Time) ([]*models.SocialPost, error) {
	posts := []*models.SocialPost{}
	query := `SELECT ` + postColumns + ` FROM social_media_posts WHERE status = $1 AND updated_at < $2`
	if err := r.db.SelectContext(ctx, &posts, query, models.PostStatusPublishing, updatedBefore); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM social_media_posts WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
