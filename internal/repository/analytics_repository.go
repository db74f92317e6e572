package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type AnalyticsFilter struct {
	PostID   *int64
	Platform string
	DateFrom *time.Time
	DateTo   *time.Time
}

type AnalyticsRepository interface {
	Seed(ctx context.Context, postID, accountID int64, platform string) error
	Upsert(ctx context.Context, a *models.SocialAnalytics) error
	List(ctx context.Context, filter AnalyticsFilter) ([]*models.SocialAnalytics, error)
}

type analyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Seed creates a zeroed row for a freshly published link. Existing rows are kept.
func (r *analyticsRepository) Seed(ctx context.Context, postID, accountID int64, platform string) error {
	query := `
		INSERT INTO social_media_analytics (post_id, account_id, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, account_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, postID, accountID, platform); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *analyticsRepository) Upsert(ctx context.Context, a *models.SocialAnalytics) error {
	query := `
		INSERT INTO social_media_analytics
			(post_id, account_id, platform, likes, comments, shares, views, reach, impressions, clicks, engagement_rate, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (post_id, account_id) DO UPDATE
		SET platform = EXCLUDED.platform,
			likes = EXCLUDED.likes,
			comments = EXCLUDED.comments,
			shares = EXCLUDED.shares,
			views = EXCLUDED.views,
			reach = EXCLUDED.reach,
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			engagement_rate = EXCLUDED.engagement_rate,
			synced_at = NOW()
		RETURNING id, synced_at, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		a.PostID, a.AccountID, a.Platform, a.Likes, a.Comments, a.Shares, a.Views,
		a.Reach, a.Impressions, a.Clicks, a.EngagementRate,
	).Scan(&a.ID, &a.SyncedAt, &a.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *analyticsRepository) List(ctx context.Context, filter AnalyticsFilter) ([]*models.SocialAnalytics, error) {
	var (
		where []string
		args  []any
	)
	if filter.PostID != nil {
		args = append(args, *filter.PostID)
		where = append(where, fmt.Sprintf("post_id = $%d", len(args)))
	}
	if filter.Platform != "" {
		args = append(args, filter.Platform)
		where = append(where, fmt.Sprintf("platform = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where = append(where, fmt.Sprintf("synced_at >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where = append(where, fmt.Sprintf("synced_at <= $%d", len(args)))
	}

	query := `
		SELECT id, post_id, account_id, platform, likes, comments, shares, views, reach,
			impressions, clicks, engagement_rate, synced_at, created_at
		FROM social_media_analytics`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY synced_at DESC"

	rows := []*models.SocialAnalytics{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return rows, nil
}
