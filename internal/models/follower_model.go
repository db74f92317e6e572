package models

import "time"

type Family struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Follower struct {
	ID        int64     `db:"id" json:"id"`
	FamilyID  *int64    `db:"family_id" json:"family_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type PrayerPoint struct {
	ID          int64      `db:"id" json:"id"`
	FollowerID  int64      `db:"follower_id" json:"follower_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	AnsweredAt  *time.Time `db:"answered_at" json:"answered_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	PrayerStatusPending     = "pending"
	PrayerStatusHappened    = "happened"
	PrayerStatusNotHappened = "not_happened"
)

func IsValidPrayerStatus(s string) bool {
	return s == PrayerStatusPending || s == PrayerStatusHappened || s == PrayerStatusNotHappened
}
