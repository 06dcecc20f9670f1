package media

import (
	"testing"

	"github.com/bluewingapp/bluewing/internal/models"
)

func TestMaxBytes(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()

	tests := []struct {
		name     string
		provider models.Provider
		kind     models.MediaType
		want     int64
	}{
		{"x image", models.ProviderX, models.MediaTypeImage, 5 * 1024 * 1024},
		{"x gif", models.ProviderX, models.MediaTypeGif, 15 * 1024 * 1024},
		{"x video", models.ProviderX, models.MediaTypeVideo, 512 * 1024 * 1024},
		{"bluesky image", models.ProviderBluesky, models.MediaTypeImage, 1_000_000},
		{"bluesky gif", models.ProviderBluesky, models.MediaTypeGif, 1_000_000},
		{"bluesky video", models.ProviderBluesky, models.MediaTypeVideo, 100 * 1024 * 1024},
		{"unknown provider", models.Provider("mastodon"), models.MediaTypeImage, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := limits.MaxBytes(tt.provider, tt.kind); got != tt.want {
				t.Errorf("MaxBytes(%s, %s) = %d, want %d", tt.provider, tt.kind, got, tt.want)
			}
		})
	}
}

func TestStrictestMaxBytes(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()

	tests := []struct {
		name      string
		providers []models.Provider
		kind      models.MediaType
		want      int64
	}{
		{"empty provider set", nil, models.MediaTypeImage, 0},
		{"single provider", []models.Provider{models.ProviderX}, models.MediaTypeImage, 5 * 1024 * 1024},
		{"bluesky wins for images", []models.Provider{models.ProviderX, models.ProviderBluesky}, models.MediaTypeImage, 1_000_000},
		{"order does not matter", []models.Provider{models.ProviderBluesky, models.ProviderX}, models.MediaTypeImage, 1_000_000},
		{"bluesky wins for video", []models.Provider{models.ProviderX, models.ProviderBluesky}, models.MediaTypeVideo, 100 * 1024 * 1024},
		{"unknown provider forces zero", []models.Provider{models.ProviderX, models.Provider("mastodon")}, models.MediaTypeImage, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := limits.StrictestMaxBytes(tt.providers, tt.kind); got != tt.want {
				t.Errorf("StrictestMaxBytes(%v, %s) = %d, want %d", tt.providers, tt.kind, got, tt.want)
			}
		})
	}
}

// The strictest limit is always the minimum of the per-provider limits, never
// more permissive than any single selected provider.
func TestStrictestNeverExceedsAnyProvider(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	providers := []models.Provider{models.ProviderX, models.ProviderBluesky}

	for _, kind := range []models.MediaType{models.MediaTypeImage, models.MediaTypeGif, models.MediaTypeVideo} {
		strictest := limits.StrictestMaxBytes(providers, kind)
		for _, p := range providers {
			if strictest > limits.MaxBytes(p, kind) {
				t.Errorf("strictest %s limit %d exceeds %s limit %d", kind, strictest, p, limits.MaxBytes(p, kind))
			}
		}
	}
}
