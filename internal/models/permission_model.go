package models

import "time"

type Resource string

const (
	ResourceUsers                Resource = "users"
	ResourceBlogs                Resource = "blogs"
	ResourceEvents               Resource = "events"
	ResourceGallery              Resource = "gallery"
	ResourceTeam                 Resource = "team"
	ResourceFollowers            Resource = "followers"
	ResourceNotes                Resource = "notes"
	ResourceProphecy             Resource = "prophecy"
	ResourceMedia                Resource = "media"
	ResourceSettings             Resource = "settings"
	ResourceSocialMediaAccounts  Resource = "social_media_accounts"
	ResourceSocialMediaPosts     Resource = "social_media_posts"
	ResourceSocialMediaAnalytics Resource = "social_media_analytics"
)

var Resources = []Resource{
	ResourceUsers, ResourceBlogs, ResourceEvents, ResourceGallery, ResourceTeam,
	ResourceFollowers, ResourceNotes, ResourceProphecy, ResourceMedia, ResourceSettings,
	ResourceSocialMediaAccounts, ResourceSocialMediaPosts, ResourceSocialMediaAnalytics,
}

func IsValidResource(r Resource) bool {
	for _, known := range Resources {
		if known == r {
			return true
		}
	}
	return false
}

type Permission string

const (
	PermissionCreate Permission = "can_create"
	PermissionRead   Permission = "can_read"
	PermissionUpdate Permission = "can_update"
	PermissionDelete Permission = "can_delete"
)

type RolePermission struct {
	ID        int64     `db:"id" json:"id"`
	Role      string    `db:"role" json:"role"`
	Resource  Resource  `db:"resource" json:"resource"`
	CanCreate bool      `db:"can_create" json:"can_create"`
	CanRead   bool      `db:"can_read" json:"can_read"`
	CanUpdate bool      `db:"can_update" json:"can_update"`
	CanDelete bool      `db:"can_delete" json:"can_delete"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Allows returns the flag for p. Unknown permissions are denied.
func (rp *RolePermission) Allows(p Permission) bool {
	switch p {
	case PermissionCreate:
		return rp.CanCreate
	case PermissionRead:
		return rp.CanRead
	case PermissionUpdate:
		return rp.CanUpdate
	case PermissionDelete:
		return rp.CanDelete
	default:
		return false
	}
}
