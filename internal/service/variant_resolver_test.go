package service

import (
	"database/sql"
	"testing"

	"github.com/bluewingapp/bluewing/internal/models"
)

func variant(scope models.ScopeType, value, text string) *models.PostVariant {
	v := &models.PostVariant{ScopeType: scope, BodyText: text}
	if value != "" {
		v.ScopeValue = sql.NullString{String: value, Valid: true}
	}
	return v
}

func TestResolveTextForTarget(t *testing.T) {
	t.Parallel()

	account := &models.SocialAccount{ID: 42, Provider: models.ProviderBluesky}

	tests := []struct {
		name     string
		variants []*models.PostVariant
		wantText string
		wantOK   bool
	}{
		{
			name:     "no variants",
			variants: nil,
			wantOK:   false,
		},
		{
			name: "default only",
			variants: []*models.PostVariant{
				variant(models.ScopeDefault, "", "hello world"),
			},
			wantText: "hello world",
			wantOK:   true,
		},
		{
			name: "provider override beats default",
			variants: []*models.PostVariant{
				variant(models.ScopeDefault, "", "hello world"),
				variant(models.ScopeProvider, "bluesky", "hello bluesky"),
			},
			wantText: "hello bluesky",
			wantOK:   true,
		},
		{
			name: "account override beats provider and default",
			variants: []*models.PostVariant{
				variant(models.ScopeDefault, "", "hello world"),
				variant(models.ScopeProvider, "bluesky", "hello bluesky"),
				variant(models.ScopeSocialAccount, "42", "hello account"),
			},
			wantText: "hello account",
			wantOK:   true,
		},
		{
			name: "precedence independent of slice order",
			variants: []*models.PostVariant{
				variant(models.ScopeSocialAccount, "42", "hello account"),
				variant(models.ScopeDefault, "", "hello world"),
				variant(models.ScopeProvider, "bluesky", "hello bluesky"),
			},
			wantText: "hello account",
			wantOK:   true,
		},
		{
			name: "other provider override is ignored",
			variants: []*models.PostVariant{
				variant(models.ScopeProvider, "x", "hello x"),
			},
			wantOK: false,
		},
		{
			name: "other account override is ignored",
			variants: []*models.PostVariant{
				variant(models.ScopeSocialAccount, "7", "hello other"),
				variant(models.ScopeDefault, "", "hello world"),
			},
			wantText: "hello world",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ResolveTextForTarget(account, tt.variants)
			if ok != tt.wantOK {
				t.Fatalf("ResolveTextForTarget ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.wantText {
				t.Errorf("ResolveTextForTarget text = %q, want %q", got, tt.wantText)
			}
		})
	}
}
