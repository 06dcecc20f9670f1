package models

import (
	"database/sql"
	"time"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeGif   MediaType = "gif"
	MediaTypeVideo MediaType = "video"
)

// IsImage reports whether the media counts as image-like. GIFs share the
// image slot limits but carry their own byte ceiling.
func (t MediaType) IsImage() bool {
	return t == MediaTypeImage || t == MediaTypeGif
}

type PostMedia struct {
	ID               int64          `db:"id" json:"id"`
	UserID           int64          `db:"user_id" json:"user_id"`
	PostID           sql.NullInt64  `db:"post_id" json:"post_id"`
	Type             MediaType      `db:"type" json:"type"`
	OriginalFilename string         `db:"original_filename" json:"original_filename"`
	MimeType         string         `db:"mime_type" json:"mime_type"`
	SizeBytes        int64          `db:"size_bytes" json:"size_bytes"`
	StorageDisk      string         `db:"storage_disk" json:"storage_disk"`
	StoragePath      string         `db:"storage_path" json:"storage_path"`
	AltText          sql.NullString `db:"alt_text" json:"alt_text"`
	Width            sql.NullInt64  `db:"width" json:"width"`
	Height           sql.NullInt64  `db:"height" json:"height"`
	DurationSeconds  sql.NullInt64  `db:"duration_seconds" json:"duration_seconds"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// PostTargetMedia links a post media row to the identifier a provider
// assigned to it after upload. One row per successfully registered item.
type PostTargetMedia struct {
	ID              int64     `db:"id" json:"id"`
	PostTargetID    int64     `db:"post_target_id" json:"post_target_id"`
	PostMediaID     int64     `db:"post_media_id" json:"post_media_id"`
	ProviderMediaID string    `db:"provider_media_id" json:"provider_media_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
