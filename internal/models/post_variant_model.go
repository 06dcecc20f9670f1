package models

import (
	"database/sql"
	"time"
)

type ScopeType string

const (
	ScopeDefault       ScopeType = "default"
	ScopeProvider      ScopeType = "provider"
	ScopeSocialAccount ScopeType = "social_account"
)

// PostVariant is one candidate body text for a post at a given scope.
// ScopeValue is null for the default variant, a provider identifier for
// provider overrides, and a social account id for account overrides.
type PostVariant struct {
	ID         int64          `db:"id" json:"id"`
	PostID     int64          `db:"post_id" json:"post_id"`
	ScopeType  ScopeType      `db:"scope_type" json:"scope_type"`
	ScopeValue sql.NullString `db:"scope_value" json:"scope_value"`
	BodyText   string         `db:"body_text" json:"body_text"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
