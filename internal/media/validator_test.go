package media

import (
	"strings"
	"testing"

	"github.com/bluewingapp/bluewing/internal/models"
)

func image(size int64) Descriptor {
	return Descriptor{Type: models.MediaTypeImage, MimeType: "image/jpeg", SizeBytes: size}
}

func video(size int64) Descriptor {
	return Descriptor{Type: models.MediaTypeVideo, MimeType: "video/mp4", SizeBytes: size}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultLimits())
	both := []models.Provider{models.ProviderX, models.ProviderBluesky}

	tests := []struct {
		name      string
		files     []Descriptor
		providers []models.Provider
		want      []string
	}{
		{
			name:      "no files is valid",
			files:     nil,
			providers: both,
			want:      nil,
		},
		{
			name:      "no providers",
			files:     []Descriptor{image(100)},
			providers: nil,
			want:      []string{"At least one target provider is required to validate media."},
		},
		{
			name:      "four small images pass",
			files:     []Descriptor{image(100), image(100), image(100), image(100)},
			providers: both,
			want:      nil,
		},
		{
			name:      "five images rejected",
			files:     []Descriptor{image(100), image(100), image(100), image(100), image(100)},
			providers: both,
			want:      []string{"A maximum of 4 images are allowed per post."},
		},
		{
			name:      "two videos rejected",
			files:     []Descriptor{video(100), video(100)},
			providers: both,
			want:      []string{"Only one video is allowed per post."},
		},
		{
			name:      "mixing short-circuits before count checks",
			files:     []Descriptor{image(100), image(100), image(100), image(100), image(100), video(100), video(100)},
			providers: both,
			want:      []string{"You cannot mix images and video in the same post."},
		},
		{
			name:      "gif counts as image for mixing",
			files:     []Descriptor{{Type: models.MediaTypeGif, MimeType: "image/gif", SizeBytes: 100}, video(100)},
			providers: both,
			want:      []string{"You cannot mix images and video in the same post."},
		},
		{
			name:      "image over the strictest limit",
			files:     []Descriptor{image(1_000_001)},
			providers: both,
			want:      []string{"File #1 exceeds the maximum size of 976.6 KB for the selected platforms."},
		},
		{
			name:      "same image passes without the stricter provider",
			files:     []Descriptor{image(1_000_001)},
			providers: []models.Provider{models.ProviderX},
			want:      nil,
		},
		{
			name:      "filename used in the size message",
			files:     []Descriptor{{Type: models.MediaTypeImage, MimeType: "image/png", SizeBytes: 2_000_000, Filename: "banner.png"}},
			providers: []models.Provider{models.ProviderBluesky},
			want:      []string{"banner.png exceeds the maximum size of 976.6 KB for the selected platforms."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := v.Validate(tt.files, tt.providers)
			if len(got) != len(tt.want) {
				t.Fatalf("Validate returned %d errors %q, want %d %q", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("error %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateUntypedFallsBackToMime(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultLimits())

	// Type unset, so the mime type decides: this is a video and mixes with
	// the image.
	files := []Descriptor{
		{MimeType: "video/mp4", SizeBytes: 100},
		{MimeType: "image/jpeg", SizeBytes: 100},
	}

	got := v.Validate(files, []models.Provider{models.ProviderX})
	if len(got) != 1 || !strings.Contains(got[0], "cannot mix") {
		t.Fatalf("Validate = %q, want mixing error", got)
	}
}

func TestDetectMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mime string
		want models.MediaType
	}{
		{"image/gif", models.MediaTypeGif},
		{"image/jpeg", models.MediaTypeImage},
		{"image/png", models.MediaTypeImage},
		{"video/mp4", models.MediaTypeVideo},
		{"video/quicktime", models.MediaTypeVideo},
		{"application/pdf", models.MediaTypeImage},
		{"", models.MediaTypeImage},
	}

	for _, tt := range tests {
		if got := DetectMediaType(tt.mime); got != tt.want {
			t.Errorf("DetectMediaType(%q) = %s, want %s", tt.mime, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 bytes"},
		{512, "512 bytes"},
		{1024, "1.0 KB"},
		{1_000_000, "976.6 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{100 * 1024 * 1024, "100.0 MB"},
		{2 * 1024 * 1024 * 1024, "2.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
