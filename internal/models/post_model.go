package models

import (
	"database/sql"
	"time"
)

type PostStatus string

const (
	PostStatusDraft      PostStatus = "draft"
	PostStatusScheduled  PostStatus = "scheduled"
	PostStatusQueued     PostStatus = "queued"
	PostStatusPublishing PostStatus = "publishing"
	PostStatusSent       PostStatus = "sent"
	PostStatusFailed     PostStatus = "failed"
	PostStatusCancelled  PostStatus = "cancelled"
)

// Terminal reports whether the post can no longer change status through the
// publishing pipeline.
func (s PostStatus) Terminal() bool {
	switch s {
	case PostStatusSent, PostStatusFailed, PostStatusCancelled:
		return true
	}
	return false
}

type Post struct {
	ID           int64        `db:"id" json:"id"`
	UserID       int64        `db:"user_id" json:"user_id"`
	ScheduledFor sql.NullTime `db:"scheduled_for" json:"scheduled_for"`
	Status       PostStatus   `db:"status" json:"status"`
	SentAt       sql.NullTime `db:"sent_at" json:"sent_at"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}
