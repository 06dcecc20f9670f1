package service

import (
	"strconv"

	"github.com/bluewingapp/bluewing/internal/models"
)

// ResolveTextForTarget resolves the body text to publish for one destination
// account using variant precedence: account override > provider override >
// default. The second return is false when no variant applies; publishing
// must not proceed in that case.
func ResolveTextForTarget(account *models.SocialAccount, variants []*models.PostVariant) (string, bool) {
	accountID := strconv.FormatInt(account.ID, 10)

	for _, v := range variants {
		if v.ScopeType == models.ScopeSocialAccount && v.ScopeValue.Valid && v.ScopeValue.String == accountID {
			return v.BodyText, true
		}
	}

	for _, v := range variants {
		if v.ScopeType == models.ScopeProvider && v.ScopeValue.Valid && v.ScopeValue.String == string(account.Provider) {
			return v.BodyText, true
		}
	}

	for _, v := range variants {
		if v.ScopeType == models.ScopeDefault {
			return v.BodyText, true
		}
	}

	return "", false
}
