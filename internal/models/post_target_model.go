package models

import (
	"database/sql"
	"time"
)

type PostTargetStatus string

const (
	TargetStatusPending PostTargetStatus = "pending"
	TargetStatusQueued  PostTargetStatus = "queued"
	TargetStatusSent    PostTargetStatus = "sent"
	TargetStatusFailed  PostTargetStatus = "failed"
	TargetStatusSkipped PostTargetStatus = "skipped"
)

func (s PostTargetStatus) Terminal() bool {
	switch s {
	case TargetStatusSent, TargetStatusFailed, TargetStatusSkipped:
		return true
	}
	return false
}

// PostTarget pairs one post with one social account. It is the unit of
// independent publish success or failure.
type PostTarget struct {
	ID              int64            `db:"id" json:"id"`
	PostID          int64            `db:"post_id" json:"post_id"`
	SocialAccountID int64            `db:"social_account_id" json:"social_account_id"`
	Status          PostTargetStatus `db:"status" json:"status"`
	SentAt          sql.NullTime     `db:"sent_at" json:"sent_at"`
	ErrorMessage    sql.NullString   `db:"error_message" json:"error_message"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}
