package models

import "time"

type SocialAnalytics struct {
	ID             int64     `db:"id" json:"id"`
	PostID         int64     `db:"post_id" json:"post_id"`
	AccountID      int64     `db:"account_id" json:"account_id"`
	Platform       string    `db:"platform" json:"platform"`
	Likes          int64     `db:"likes" json:"likes"`
	Comments       int64     `db:"comments" json:"comments"`
	Shares         int64     `db:"shares" json:"shares"`
	Views          int64     `db:"views" json:"views"`
	Reach          int64     `db:"reach" json:"reach"`
	Impressions    int64     `db:"impressions" json:"impressions"`
	Clicks         int64     `db:"clicks" json:"clicks"`
	EngagementRate float64   `db:"engagement_rate" json:"engagement_rate"`
	SyncedAt       time.Time `db:"synced_at" json:"synced_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ComputeEngagementRate returns interactions per impression as a percentage,
// falling back to reach when impressions are unknown.
func (a *SocialAnalytics) ComputeEngagementRate() float64 {
	base := a.Impressions
	if base == 0 {
		base = a.Reach
	}
	if base == 0 {
		return 0
	}
	interactions := a.Likes + a.Comments + a.Shares + a.Clicks
	return float64(interactions) / float64(base) * 100
}
