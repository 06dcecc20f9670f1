package transfer

import "github.com/bluewingapp/bluewing/internal/models"

// PostCreation is the request body for creating a post. ProviderOverrides is
// keyed by provider identifier, AccountOverrides by social account id.
type PostCreation struct {
	BodyText          string            `json:"body_text"`
	ScheduledFor      string            `json:"scheduled_for"`
	Status            string            `json:"status"`
	TargetAccountIDs  []int64           `json:"target_account_ids"`
	ProviderOverrides map[string]string `json:"provider_overrides"`
	AccountOverrides  map[int64]string  `json:"account_overrides"`
	MediaIDs          []int64           `json:"media_ids"`
	AltTexts          map[int64]string  `json:"alt_texts"`
}

// PostDetail bundles a post with its children for API responses.
type PostDetail struct {
	Post     *models.Post          `json:"post"`
	Targets  []*models.PostTarget  `json:"targets"`
	Variants []*models.PostVariant `json:"variants"`
	Media    []*models.PostMedia   `json:"media"`
}
