package models

import "time"

type Blog struct {
	ID            int64      `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Slug          string     `db:"slug" json:"slug"`
	Excerpt       string     `db:"excerpt" json:"excerpt"`
	Content       string     `db:"content" json:"content"`
	CoverImageURL string     `db:"cover_image_url" json:"cover_image_url"`
	Status        string     `db:"status" json:"status"`
	PublishedAt   *time.Time `db:"published_at" json:"published_at"`
	CreatedBy     *int64     `db:"created_by" json:"created_by"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

type Event struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Description string     `db:"description" json:"description"`
	Location    string     `db:"location" json:"location"`
	StartsAt    time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt      *time.Time `db:"ends_at" json:"ends_at"`
	ImageURL    string     `db:"image_url" json:"image_url"`
	Status      string     `db:"status" json:"status"`
	CreatedBy   *int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
)

type TeamMember struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Position     string    `db:"position" json:"position"`
	Bio          string    `db:"bio" json:"bio"`
	PhotoURL     string    `db:"photo_url" json:"photo_url"`
	Email        string    `db:"email" json:"email"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Prophecy struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Content     string     `db:"content" json:"content"`
	Prophet     string     `db:"prophet" json:"prophet"`
	DeliveredOn *time.Time `db:"delivered_on" json:"delivered_on"`
	Category    string     `db:"category" json:"category"`
	CreatedBy   *int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
