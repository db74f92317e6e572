package transfer

import (
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
)

type AccountCreation struct {
	Platform     string     `json:"platform"`
	AccountName  string     `json:"account_name"`
	ExternalID   string     `json:"external_id"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at"`
	PageID       string     `json:"page_id"`
	ChatID       string     `json:"chat_id"`
}

type AccountUpdate struct {
	AccountName  *string    `json:"account_name"`
	ExternalID   *string    `json:"external_id"`
	Status       *string    `json:"status"`
	AccessToken  *string    `json:"access_token"`
	RefreshToken *string    `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at"`
	PageID       *string    `json:"page_id"`
	ChatID       *string    `json:"chat_id"`
}

type PostCreation struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	MediaURLs   []string   `json:"media_urls"`
	MediaType   string     `json:"media_type"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	AccountIDs  []int64    `json:"account_ids"`
}

type PostUpdate struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	MediaURLs   []string   `json:"media_urls"`
	MediaType   *string    `json:"media_type"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	AccountIDs  []int64    `json:"account_ids"`
}

// PostDetail is a post with its platform links.
type PostDetail struct {
	*models.SocialPost
	Platforms []*models.SocialPostPlatform `json:"platforms"`
}

type PublishResult struct {
	LinkID          int64  `json:"link_id"`
	AccountID       int64  `json:"account_id"`
	Platform        string `json:"platform"`
	AccountName     string `json:"account_name"`
	Status          string `json:"status"`
	PlatformPostID  string `json:"platform_post_id,omitempty"`
	PlatformPostURL string `json:"platform_post_url,omitempty"`
	Error           string `json:"error,omitempty"`
}

type PublishSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type PublishResponse struct {
	Message string          `json:"message"`
	Results []PublishResult `json:"results"`
	Summary PublishSummary  `json:"summary"`
}

type AnalyticsInput struct {
	PostID         int64    `json:"post_id"`
	AccountID      int64    `json:"account_id"`
	Platform       string   `json:"platform"`
	Likes          int64    `json:"likes"`
	Comments       int64    `json:"comments"`
	Shares         int64    `json:"shares"`
	Views          int64    `json:"views"`
	Reach          int64    `json:"reach"`
	Impressions    int64    `json:"impressions"`
	Clicks         int64    `json:"clicks"`
	EngagementRate *float64 `json:"engagement_rate"`
}

type PrayerStatusUpdate struct {
	Status string `json:"status"`
}

type SettingUpdate struct {
	Value string `json:"value"`
}
