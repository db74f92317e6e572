package models

import (
	"time"
)

type SocialAccount struct {
	ID           int64      `db:"id" json:"id"`
	Platform     string     `db:"platform" json:"platform"`
	AccountName  string     `db:"account_name" json:"account_name"`
	ExternalID   string     `db:"external_id" json:"external_id"`
	Credentials  string     `db:"credentials" json:"-"`
	Status       string     `db:"status" json:"status"`
	LastPostedAt *time.Time `db:"last_posted_at" json:"last_posted_at"`
	CreatedBy    *int64     `db:"created_by" json:"created_by"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AccountCredentials is stored encrypted in SocialAccount.Credentials.
type AccountCredentials struct {
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	PageID       string     `json:"page_id,omitempty"`
	ChatID       string     `json:"chat_id,omitempty"`
}

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
	PlatformTelegram  = "telegram"
	PlatformWhatsApp  = "whatsapp"
)

var Platforms = []string{
	PlatformFacebook, PlatformInstagram, PlatformTwitter, PlatformLinkedIn,
	PlatformYouTube, PlatformTikTok, PlatformTelegram, PlatformWhatsApp,
}

func IsValidPlatform(p string) bool {
	for _, known := range Platforms {
		if known == p {
			return true
		}
	}
	return false
}

const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)
