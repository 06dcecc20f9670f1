package models

import (
	"time"
)

type Provider string

const (
	ProviderX       Provider = "x"
	ProviderBluesky Provider = "bluesky"
)

func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderX:
		return ProviderX, true
	case ProviderBluesky:
		return ProviderBluesky, true
	}
	return "", false
}

// SocialAccount is a connected destination account. CredentialsEncrypted is
// an AES-GCM encrypted JSON blob of provider credential fields.
type SocialAccount struct {
	ID                   int64     `db:"id" json:"id"`
	UserID               int64     `db:"user_id" json:"user_id"`
	Provider             Provider  `db:"provider" json:"provider"`
	DisplayName          string    `db:"display_name" json:"display_name"`
	ExternalIdentifier   string    `db:"external_identifier" json:"external_identifier"`
	CredentialsEncrypted string    `db:"credentials_encrypted" json:"-"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
