package discord

import (
	"invitefeed/internal/domain"
	"invitefeed/internal/ports/output"
)

// DomainErrorMessage resolves err to a user-facing message in locale.
// Non-domain errors get the generic message.
func DomainErrorMessage(t output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	if code := domain.Code(err); code != "" {
		return t.T(locale, "error."+code, nil)
	}
	return t.T(locale, "error.generic", nil)
}
