package models

import (
	"time"

	"github.com/lib/pq"
)

type SocialPost struct {
	ID          int64          `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Content     string         `db:"content" json:"content"`
	MediaURLs   pq.StringArray `db:"media_urls" json:"media_urls"`
	MediaType   string         `db:"media_type" json:"media_type"`
	Status      string         `db:"status" json:"status"`
	ScheduledAt *time.Time     `db:"scheduled_at" json:"scheduled_at"`
	PublishedAt *time.Time     `db:"published_at" json:"published_at"`
	CreatedBy   *int64         `db:"created_by" json:"created_by"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// SocialPostPlatform links a post to one target account. Platform and
// AccountName are filled from the joined account row.
type SocialPostPlatform struct {
	ID              int64      `db:"id" json:"id"`
	PostID          int64      `db:"post_id" json:"post_id"`
	AccountID       int64      `db:"account_id" json:"account_id"`
	Status          string     `db:"status" json:"status"`
	PlatformPostID  *string    `db:"platform_post_id" json:"platform_post_id"`
	PlatformPostURL *string    `db:"platform_post_url" json:"platform_post_url"`
	ErrorMessage    *string    `db:"error_message" json:"error_message"`
	PublishedAt     *time.Time `db:"published_at" json:"published_at"`
	Platform        string     `db:"platform" json:"platform"`
	AccountName     string     `db:"account_name" json:"account_name"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusDraft      = "draft"
	PostStatusScheduled  = "scheduled"
	PostStatusPublishing = "publishing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
	PostStatusArchived   = "archived"
)

const (
	LinkStatusPending    = "pending"
	LinkStatusPublishing = "publishing"
	LinkStatusPublished  = "published"
	LinkStatusFailed     = "failed"
)

const (
	MediaTypeNone     = "none"
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypeCarousel = "carousel"
)

// Publishable reports whether a publish attempt should include the link.
func (l *SocialPostPlatform) Publishable() bool {
	return l.Status == LinkStatusPending || l.Status == LinkStatusFailed
}
