package models

import "time"

type MediaAsset struct {
	ID         int64     `db:"id" json:"id"`
	Kind       string    `db:"kind" json:"kind"`
	FileName   string    `db:"file_name" json:"file_name"`
	FileType   string    `db:"file_type" json:"file_type"`
	FileSize   int64     `db:"file_size" json:"file_size"`
	FileURL    string    `db:"file_url" json:"file_url"`
	Caption    string    `db:"caption" json:"caption"`
	UploadedBy *int64    `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

const (
	MediaKindGallery = "gallery"
	MediaKindMedia   = "media"
)
