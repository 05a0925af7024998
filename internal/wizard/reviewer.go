package wizard

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
	"cvwizard/internal/extract"
	"cvwizard/internal/normalize"
	"cvwizard/internal/prompts"
	"cvwizard/internal/types"
)

// Reviewer scores application materials against a job.
type Reviewer struct {
	*base
}

func NewReviewer(apiKey string, connect Connector, opts ...Option) *Reviewer {
	return &Reviewer{base: newBase(apiKey, connect, opts)}
}

// ReviewApplicationMaterials runs a first review when session is empty and a
// re-analysis otherwise. Re-analysis continues the recorded chat so the model
// can compare against its own previous verdict; a session whose history was
// dropped gets a self-contained prompt with the recap instead.
//
// Each call returns a session with exactly one more (user, model) turn pair.
func (r *Reviewer) ReviewApplicationMaterials(ctx context.Context, cv types.CVData, job types.JobDescription, coverLetter string, session ReviewSession) (types.AIReviewResult, ReviewSession, error) {
	reanalysis := !session.IsEmpty()
	attrs := []attribute.KeyValue{
		attribute.Bool("reanalysis", reanalysis),
		attribute.Bool("cover_letter", coverLetter != ""),
	}

	prompt, resp, err := r.ask(ctx, cv, job, coverLetter, session)
	if err != nil {
		r.record(ctx, EventReview, false, attrs...)
		return types.AIReviewResult{}, session, err
	}

	raw, err := extract.JSON(resp.Text)
	if err != nil {
		r.record(ctx, EventReview, false, attrs...)
		return types.AIReviewResult{}, session, err
	}

	result, report := normalize.Review(raw, job, r.now())
	if len(report.Coerced) > 0 {
		r.logger.Warn("Review response had unexpected shapes", "fields", report.Coerced)
	}

	r.record(ctx, EventReview, true, attrs...)
	return result, session.next(prompt, resp.Text, result), nil
}

func (r *Reviewer) ask(ctx context.Context, cv types.CVData, job types.JobDescription, coverLetter string, session ReviewSession) (string, ai.Response, error) {
	if session.IsEmpty() {
		prompt := prompts.Review(cv, job, coverLetter)
		resp, err := r.generate(ctx, config.OpReview, ai.Request{Parts: []string{prompt}})
		return prompt, resp, err
	}

	recap := prompts.Recap{
		ReviewNumber: session.ReviewCount + 1,
		Previous:     session.LastReviewResult,
	}

	if len(session.History) == 0 {
		prompt := prompts.StandaloneReAnalysis(cv, job, coverLetter, recap)
		resp, err := r.generate(ctx, config.OpReview, ai.Request{Parts: []string{prompt}})
		return prompt, resp, err
	}

	gw, err := r.gateway(ctx, config.OpReview)
	if err != nil {
		return "", ai.Response{}, err
	}
	prompt := prompts.ReAnalysis(cv, job, coverLetter, recap)
	r.logger.Debug("Continuing review chat",
		"review_number", recap.ReviewNumber,
		"history_turns", len(session.History))
	resp, err := gw.ContinueChat(ctx, config.OpReview, session.History, prompt)
	if err != nil {
		r.logger.LogError(err, "AI operation failed", "operation", config.OpReview.String())
		return "", ai.Response{}, err
	}
	r.logFinished(config.OpReview, resp)
	return prompt, resp, nil
}
