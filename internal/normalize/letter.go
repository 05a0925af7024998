package normalize

import "cvwizard/internal/types"

// CoverLetter fills each absent part of a raw letter with its default.
func CoverLetter(raw types.Raw) types.CoverLetter {
	return types.CoverLetter{
		Content:    str(raw["content"]),
		Salutation: strOr(raw["salutation"], types.DefaultSalutation),
		Closing:    strOr(raw["closing"], types.DefaultClosing),
	}
}
