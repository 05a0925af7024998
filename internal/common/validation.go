package common

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"cvwizard/internal/errors"
	"cvwizard/internal/formatters"
)

// ValidateOutputFormat checks format against the configured allow-list.
// An empty list allows every format the formatter registry knows.
func ValidateOutputFormat(format string, allowed []string) error {
	if len(allowed) == 0 || slices.Contains(allowed, format) {
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported output format %q (choose from %s)", format, strings.Join(allowed, ", ")), nil)
}

// ResolveOutputFormat picks the --format flag, then the configured default,
// then json, and validates the choice.
func ResolveOutputFormat(flag, defaultFormat string, allowed []string) (string, error) {
	format := cmp.Or(flag, defaultFormat, formatters.FormatJSON)
	return format, ValidateOutputFormat(format, allowed)
}

// GetSupportedFormats is the allow-list, or every registered format when
// none is configured.
func GetSupportedFormats(allowed []string) []string {
	if len(allowed) > 0 {
		return allowed
	}
	return formatters.GlobalRegistry.GetSupportedFormats()
}

