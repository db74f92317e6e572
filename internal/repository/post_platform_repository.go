package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostPlatformRepository manages the per-account publish links of a post.
type PostPlatformRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, postID, accountID int64) error
	ListByPostID(ctx context.Context, postID int64) ([]*models.SocialPostPlatform, error)
	ListPublishable(ctx context.Context, postID int64) ([]*models.SocialPostPlatform, error)
	MarkPublishing(ctx context.Context, id int64) error
	MarkPublished(ctx context.Context, id int64, platformPostID, platformPostURL string, at time.Time) error
	MarkFailed(ctx context.Context, id int64, message string) error
	CountPublished(ctx context.Context, postID int64) (int, error)
	CountPublishedByAccount(ctx context.Context, accountID int64) (int, error)
	RemoveUnpublished(ctx context.Context, tx *sqlx.Tx, postID int64, keepAccountIDs []int64) error
	FailStale(ctx context.Context, updatedBefore time.Time, message string) (int64, error)
}

type postPlatformRepository struct {
	db *sqlx.DB
}

func NewPostPlatformRepository(db *sqlx.DB) PostPlatformRepository {
	return &postPlatformRepository{db: db}
}

const linkSelect = `
	SELECT l.id, l.post_id, l.account_id, l.status, l.platform_post_id, l.platform_post_url,
		l.error_message, l.published_at, a.platform, a.account_name, l.created_at, l.updated_at
	FROM social_media_post_platforms l
	JOIN social_media_accounts a ON a.id = l.account_id
`

func (r *postPlatformRepository) Create(ctx context.Context, tx *sqlx.Tx, postID, accountID int64) error {
	query := `
		INSERT INTO social_media_post_platforms (post_id, account_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, account_id) DO NOTHING
	`
	_, err := queryer(r.db, tx).ExecContext(ctx, query, postID, accountID, models.LinkStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postPlatformRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.SocialPostPlatform, error) {
	links := []*models.SocialPostPlatform{}
	if err := r.db.SelectContext(ctx, &links, linkSelect+` WHERE l.post_id = $1 ORDER BY l.id`, postID); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return links, nil
}

func (r *postPlatformRepository) ListPublishable(ctx context.Context, postID int64) ([]*models.SocialPostPlatform, error) {
	links := []*models.SocialPostPlatform{}
	query := linkSelect + ` WHERE l.post_id = $1 AND l.status IN ($2, $3) ORDER BY l.id`
	err := r.db.SelectContext(ctx, &links, query, postID, models.LinkStatusPending, models.LinkStatusFailed)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return links, nil
}

func (r *postPlatformRepository) MarkPublishing(ctx context.Context, id int64) error {
	query := `
		UPDATE social_media_post_platforms
		SET status = $1, error_message = NULL, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, models.LinkStatusPublishing, id); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postPlatformRepository) MarkPublished(ctx context.Context, id int64, platformPostID, platformPostURL string, at time.Time) error {
	query := `
		UPDATE social_media_post_platforms
		SET status = $1,
			platform_post_id = $2,
			platform_post_url = $3,
			published_at = $4,
			error_message = NULL,
			updated_at = NOW()
		WHERE id = $5
	`
	if _, err := r.db.ExecContext(ctx, query, models.LinkStatusPublished, platformPostID, platformPostURL, at, id); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postPlatformRepository) MarkFailed(ctx context.Context, id int64, message string) error {
	query := `
		UPDATE social_media_post_platforms
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, models.LinkStatusFailed, message, id); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postPlatformRepository) CountPublished(ctx context.Context, postID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM social_media_post_platforms WHERE post_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &n, query, postID, models.LinkStatusPublished); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return n, nil
}

func (r *postPlatformRepository) CountPublishedByAccount(ctx context.Context, accountID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM social_media_post_platforms WHERE account_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &n, query, accountID, models.LinkStatusPublished); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return n, nil
}

// RemoveUnpublished drops pending and failed links whose account is not in keepAccountIDs.
func (r *postPlatformRepository) RemoveUnpublished(ctx context.Context, tx *sqlx.Tx, postID int64, keepAccountIDs []int64) error {
	query := `
		DELETE FROM social_media_post_platforms
		WHERE post_id = $1
			AND status IN ($2, $3)
			AND NOT (account_id = ANY($4))
	`
	_, err := queryer(r.db, tx).ExecContext(ctx, query,
		postID, models.LinkStatusPending, models.LinkStatusFailed, pq.Array(keepAccountIDs))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postPlatformRepository) FailStale(ctx context.Context, updatedBefore time.Time, message string) (int64, error) {
	query := `
		UPDATE social_media_post_platforms
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE status = $3 AND updated_at < $4
	`
	res, err := r.db.ExecContext(ctx, query, models.LinkStatusFailed, message, models.LinkStatusPublishing, updatedBefore)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return res.RowsAffected()
}
