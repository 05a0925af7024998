package wizard

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
	"cvwizard/internal/errors"
	"cvwizard/internal/extract"
	"cvwizard/internal/files"
	"cvwizard/internal/normalize"
	"cvwizard/internal/prompts"
	"cvwizard/internal/types"
)

// Modifier applies free-text edit requests to a resume and cover letter.
type Modifier struct {
	*base
}

func NewModifier(apiKey string, connect Connector, opts ...Option) *Modifier {
	return &Modifier{base: newBase(apiKey, connect, opts)}
}

// Modify asks the model to apply request. A request the model classifies as
// not actionable comes back as a result with Success false and type
// "invalid", not as an error. resume and letter are never modified.
func (m *Modifier) Modify(ctx context.Context, request string, resume types.CVData, letter *types.CoverLetter, job types.JobDescription, attachments []files.Encoded) (types.ModificationResult, error) {
	if strings.TrimSpace(request) == "" {
		return types.ModificationResult{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"modification request cannot be empty", nil)
	}

	original := resume.Clone()
	var originalLetter *types.CoverLetter
	if letter != nil {
		l := *letter
		originalLetter = &l
	}

	resp, err := m.generate(ctx, config.OpModify, ai.Request{
		Parts: []string{prompts.Modification(request, original, originalLetter, job)},
		Files: attachments,
	})
	if err != nil {
		m.record(ctx, EventModification, false)
		return types.ModificationResult{}, err
	}

	raw, err := extract.JSON(resp.Text)
	if err != nil {
		m.record(ctx, EventModification, false)
		return types.ModificationResult{}, err
	}

	result, _ := normalize.Modification(raw, original, originalLetter)
	m.logger.Info("Modification processed",
		"type", string(result.Type),
		"success", result.Success,
		"changes", len(result.Changes))
	m.record(ctx, EventModification, true, attribute.String("type", string(result.Type)))
	return result, nil
}
