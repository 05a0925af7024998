package wizard

import (
	"context"
	"fmt"
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

// identityFields are the fields whose absence RequireIdentity refuses.
var identityFields = []string{"personalInfo.fullName", "personalInfo.title"}

// Enhancer completes a partial CV and writes cover letters.
type Enhancer struct {
	*base
}

func NewEnhancer(apiKey string, connect Connector, opts ...Option) *Enhancer {
	return &Enhancer{base: newBase(apiKey, connect, opts)}
}

// EnhanceCV tailors cv to job.
func (e *Enhancer) EnhanceCV(ctx context.Context, cv types.CVData, job types.JobDescription, attachments []files.Encoded) (types.CVData, normalize.Report, error) {
	return e.enhance(ctx, config.OpEnhance, prompts.Enhancement(cv, job), attachments)
}

// QuickEnhance polishes cv without a target job.
func (e *Enhancer) QuickEnhance(ctx context.Context, cv types.CVData, attachments []files.Encoded) (types.CVData, normalize.Report, error) {
	return e.enhance(ctx, config.OpQuickEnhance, prompts.QuickEnhancement(cv), attachments)
}

func (e *Enhancer) enhance(ctx context.Context, op config.Operation, prompt string, attachments []files.Encoded) (types.CVData, normalize.Report, error) {
	quick := attribute.Bool("quick", op == config.OpQuickEnhance)

	resp, err := e.generate(ctx, op, ai.Request{Parts: []string{prompt}, Files: attachments})
	if err != nil {
		e.record(ctx, EventCVEnhanced, false, quick)
		return types.CVData{}, normalize.Report{}, err
	}

	raw, err := extract.JSON(resp.Text)
	if err != nil {
		e.record(ctx, EventCVEnhanced, false, quick)
		return types.CVData{}, normalize.Report{}, err
	}

	profile := normalize.Enhancement
	if !e.allowPlaceholderIdentity {
		profile = profile.WithoutPlaceholders()
	}
	cv, report := normalize.CV(raw, profile)

	if report.HasPlaceholders() {
		e.logger.Warn("Enhanced CV uses placeholder identity", "fields", report.Defaulted)
		e.record(ctx, EventPlaceholderIdentity, true, attribute.StringSlice("fields", report.Defaulted))
	}
	if e.requireIdentity {
		var lacking []string
		for _, f := range identityFields {
			if report.IsMissing(f) {
				lacking = append(lacking, f)
			}
		}
		if len(lacking) > 0 {
			e.record(ctx, EventCVEnhanced, false, quick)
			return types.CVData{}, report, errors.NewValidationError(errors.ErrCodeIncompleteIdentity,
				"enhanced CV is missing "+strings.Join(lacking, ", "), nil).
				WithContext("fields", lacking)
		}
	}

	e.record(ctx, EventCVEnhanced, true, quick)
	return cv, report, nil
}

// GenerateCoverLetter writes a letter for cv and job. A reply without a JSON
// object is not an error: the letter is recovered from the prose instead.
func (e *Enhancer) GenerateCoverLetter(ctx context.Context, cv types.CVData, job types.JobDescription, attachments []files.Encoded) (types.CoverLetter, error) {
	resp, err := e.generate(ctx, config.OpCoverLetter, ai.Request{
		Parts: []string{prompts.CoverLetter(cv, job)},
		Files: attachments,
	})
	if err != nil {
		e.record(ctx, EventCoverLetter, false)
		return types.CoverLetter{}, err
	}
	if strings.TrimSpace(resp.Text) == "" {
		e.record(ctx, EventCoverLetter, false)
		return types.CoverLetter{}, errors.NewExtractionError(nil)
	}

	letter, fallback, err := coverLetterFrom(resp.Text)
	if err != nil {
		e.record(ctx, EventCoverLetter, false)
		return types.CoverLetter{}, err
	}
	if fallback {
		e.logger.Warn("Cover letter reply had no JSON object, using plain text")
	}
	e.record(ctx, EventCoverLetter, true, attribute.Bool("fallback", fallback))
	return letter, nil
}

// coverLetterFrom only reads prose when the reply holds no JSON object. A JSON
// letter without content is unusable.
func coverLetterFrom(text string) (letter types.CoverLetter, fallback bool, err error) {
	raw, err := extract.JSON(text)
	if err != nil {
		return extract.CoverLetterText(text), true, nil
	}
	letter = normalize.CoverLetter(raw)
	if letter.Content == "" {
		return types.CoverLetter{}, false, errors.NewExtractionError(fmt.Errorf("cover letter reply has no content"))
	}
	return letter, false, nil
}
