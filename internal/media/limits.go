package media

import (
	"github.com/bluewingapp/bluewing/internal/models"
)

const (
	MaxImagesPerPost = 4
	MaxVideosPerPost = 1
)

// SizeLimits holds the maximum accepted byte sizes for one provider.
type SizeLimits struct {
	ImageMaxBytes int64
	GifMaxBytes   int64
	VideoMaxBytes int64
}

// Limits maps each provider to its size ceilings. The table is injected at
// construction time so tests can run with synthetic limits.
type Limits map[models.Provider]SizeLimits

func DefaultLimits() Limits {
	return Limits{
		models.ProviderX: {
			ImageMaxBytes: 5 * 1024 * 1024,
			GifMaxBytes:   15 * 1024 * 1024,
			VideoMaxBytes: 512 * 1024 * 1024,
		},
		models.ProviderBluesky: {
			ImageMaxBytes: 1_000_000,
			GifMaxBytes:   1_000_000,
			VideoMaxBytes: 100 * 1024 * 1024,
		},
	}
}

// MaxBytes returns the ceiling for one provider and media kind. A provider
// missing from the table yields 0, so nothing passes for it.
func (l Limits) MaxBytes(p models.Provider, kind models.MediaType) int64 {
	limits, ok := l[p]
	if !ok {
		return 0
	}
	switch kind {
	case models.MediaTypeGif:
		return limits.GifMaxBytes
	case models.MediaTypeVideo:
		return limits.VideoMaxBytes
	default:
		return limits.ImageMaxBytes
	}
}

// StrictestMaxBytes returns the smallest ceiling for kind across all given
// providers. An empty provider set yields 0: an item can never silently pass
// without at least one provider selected.
func (l Limits) StrictestMaxBytes(providers []models.Provider, kind models.MediaType) int64 {
	if len(providers) == 0 {
		return 0
	}
	strictest := l.MaxBytes(providers[0], kind)
	for _, p := range providers[1:] {
		if limit := l.MaxBytes(p, kind); limit < strictest {
			strictest = limit
		}
	}
	return strictest
}
