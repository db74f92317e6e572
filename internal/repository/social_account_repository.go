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

type SocialAccountRepository interface {
	Create(ctx context.Context, sa *models.SocialAccount) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SocialAccount, error)
	List(ctx context.Context, platform string, page transfer.Page) ([]*models.SocialAccount, error)
	Update(ctx context.Context, sa *models.SocialAccount) error
	SetStatus(ctx context.Context, id int64, status string) error
	TouchLastPosted(ctx context.Context, id int64, at time.Time) error
	Remove(ctx context.Context, id int64) error
}

type socialAccountRepository struct {
	db *sqlx.DB
}

func NewSocialAccountRepository(db *sqlx.DB) SocialAccountRepository {
	return &socialAccountRepository{db: db}
}

const socialAccountColumns = `id, platform, account_name, external_id, credentials, status, last_posted_at, created_by, created_at, updated_at`

func (r *socialAccountRepository) Create(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	query := `
		INSERT INTO social_media_accounts (platform, account_name, external_id, credentials, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		sa.Platform,
		sa.AccountName,
		sa.ExternalID,
		sa.Credentials,
		sa.Status,
		sa.CreatedBy,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *socialAccountRepository) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	var sa models.SocialAccount
	err := r.db.GetContext(ctx, &sa, `SELECT `+socialAccountColumns+` FROM social_media_accounts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &sa, nil
}

func (r *socialAccountRepository) List(ctx context.Context, platform string, page transfer.Page) ([]*models.SocialAccount, error) {
	accounts := []*models.SocialAccount{}
	query := `
		SELECT ` + socialAccountColumns + `
		FROM social_media_accounts
		WHERE ($1 = '' OR platform = $1)
		ORDER BY platform, account_name
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &accounts, query, platform, page.Limit, page.Offset); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return accounts, nil
}

func (r *socialAccountRepository) Update(ctx context.Context, sa *models.SocialAccount) error {
	query := `
		UPDATE social_media_accounts
		SET account_name = $1,
			external_id = $2,
			credentials = $3,
			status = $4,
			updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, sa.AccountName, sa.ExternalID, sa.Credentials, sa.Status, sa.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *socialAccountRepository) SetStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE social_media_accounts SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *socialAccountRepository) TouchLastPosted(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE social_media_accounts SET last_posted_at = $1, updated_at = NOW() WHERE id = $2`, at, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *socialAccountRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM social_media_accounts WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
