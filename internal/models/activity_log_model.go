package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type ActivityLog struct {
	ID           int64     `db:"id" json:"id"`
	UserID       *int64    `db:"user_id" json:"user_id"`
	Action       string    `db:"action" json:"action"`
	ResourceType string    `db:"resource_type" json:"resource_type"`
	ResourceID   *int64    `db:"resource_id" json:"resource_id"`
	Details      Details   `db:"details" json:"details"`
	IPAddress    string    `db:"ip_address" json:"ip_address"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionArchive = "archive"
	ActionPublish = "publish"
	ActionLogin   = "login"
)

// Details is a free-form JSONB payload.
type Details map[string]any

func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

func (d *Details) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("details: unsupported scan type")
	}
	return json.Unmarshal(raw, d)
}
