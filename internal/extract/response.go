// Package extract recovers structured data from free-form model replies.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"cvwizard/internal/errors"
	"cvwizard/internal/types"
)

// JSON returns the object spanning the first '{' and the last '}' of text.
// Model replies are instructed to carry exactly one top-level object, so the
// greedy span is sufficient even when prose or code fences surround it.
func JSON(text string) (types.Raw, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, errors.NewExtractionError(fmt.Errorf("no JSON object found in response (%d bytes)", len(text)))
	}

	var raw types.Raw
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, errors.NewExtractionError(err)
	}
	if raw == nil {
		return nil, errors.NewExtractionError(fmt.Errorf("response JSON is null"))
	}
	return raw, nil
}

// StripFences removes a leading ``` or ```json fence and a trailing ``` fence.
func StripFences(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")

	return strings.TrimSpace(clean)
}
