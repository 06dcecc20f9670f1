package provider

import (
	"context"

	"github.com/bluewingapp/bluewing/internal/models"
)

// MediaItem is one attachment handed to a provider client, with its raw
// bytes already read from storage.
type MediaItem struct {
	ID        int64
	Type      models.MediaType
	MimeType  string
	Contents  []byte
	SizeBytes int64
	AltText   string
	Filename  string
}

// PublishResult reports the outcome of a publish attempt.
//
// RefreshedCredentials is non-nil when the client renewed tokens during the
// call; the caller must persist it even if the publish itself failed.
// ProviderMediaIDs maps post media ids to the identifiers the provider
// assigned on upload.
type PublishResult struct {
	Success              bool
	ExternalPostID       string
	ErrorMessage         string
	RefreshedCredentials map[string]string
	ProviderMediaIDs     map[int64]string
}

func Failure(message string) PublishResult {
	return PublishResult{ErrorMessage: message}
}

type ValidationResult struct {
	Valid   bool
	Message string
}

type CredentialField struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// Client publishes posts to one social network.
type Client interface {
	ValidateCredentials(credentials map[string]string) ValidationResult
	Publish(ctx context.Context, externalAccountID string, credentials map[string]string, text string, media []MediaItem) PublishResult
	CredentialFields() []CredentialField
}
