package media

import (
	"fmt"
	"strings"

	"github.com/bluewingapp/bluewing/internal/models"
)

// Descriptor is the minimal view of a media item the validator needs. Type
// may be left empty, in which case it is derived from the mime type.
type Descriptor struct {
	Type      models.MediaType
	MimeType  string
	SizeBytes int64
	Filename  string
}

type Validator struct {
	limits Limits
}

func NewValidator(limits Limits) *Validator {
	return &Validator{limits: limits}
}

// Validate checks a batch of media against the limits of every target
// provider and returns human-readable error messages. An empty result means
// the batch is valid.
func (v *Validator) Validate(files []Descriptor, providers []models.Provider) []string {
	if len(files) == 0 {
		return nil
	}

	if len(providers) == 0 {
		return []string{"At least one target provider is required to validate media."}
	}

	var errs []string

	var images, gifs, videos int
	for _, f := range files {
		switch resolveType(f) {
		case models.MediaTypeGif:
			gifs++
		case models.MediaTypeVideo:
			videos++
		default:
			images++
		}
	}

	if images+gifs > 0 && videos > 0 {
		errs = append(errs, "You cannot mix images and video in the same post.")
		return errs
	}

	if images+gifs > MaxImagesPerPost {
		errs = append(errs, fmt.Sprintf("A maximum of %d images are allowed per post.", MaxImagesPerPost))
	}

	if videos > MaxVideosPerPost {
		errs = append(errs, "Only one video is allowed per post.")
	}

	for i, f := range files {
		maxBytes := v.limits.StrictestMaxBytes(providers, resolveType(f))
		if f.SizeBytes > maxBytes {
			errs = append(errs, fmt.Sprintf(
				"%s exceeds the maximum size of %s for the selected platforms.",
				label(f, i), FormatBytes(maxBytes)))
		}
	}

	return errs
}

// DetectMediaType classifies a mime type into a media kind. Unrecognized
// types fall back to image, which means they are checked against the
// strictest image ceiling rather than skipped.
func DetectMediaType(mimeType string) models.MediaType {
	if mimeType == "image/gif" {
		return models.MediaTypeGif
	}
	if strings.HasPrefix(mimeType, "image/") {
		return models.MediaTypeImage
	}
	if strings.HasPrefix(mimeType, "video/") {
		return models.MediaTypeVideo
	}
	return models.MediaTypeImage
}

func resolveType(f Descriptor) models.MediaType {
	if f.Type != "" {
		return f.Type
	}
	return DetectMediaType(f.MimeType)
}

func label(f Descriptor, index int) string {
	if f.Filename != "" {
		return f.Filename
	}
	return fmt.Sprintf("File #%d", index+1)
}

// FormatBytes renders a byte count with binary units and one decimal place.
func FormatBytes(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
