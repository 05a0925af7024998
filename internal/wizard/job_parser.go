package wizard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
	"cvwizard/internal/errors"
	"cvwizard/internal/extract"
	"cvwizard/internal/files"
	"cvwizard/internal/jobs"
	"cvwizard/internal/normalize"
	"cvwizard/internal/prompts"
	"cvwizard/internal/types"
)

// ParsedJob is a job description plus how it was obtained.
type ParsedJob struct {
	Job types.JobDescription `json:"job"`
	// Degraded is set when the model could not be used and Job only carries
	// the pasted text.
	Degraded bool `json:"degraded"`
	// LooksLikeJob is the local keyword heuristic on the input text.
	LooksLikeJob bool `json:"looksLikeJob"`
}

// JobParser structures pasted job posting text.
type JobParser struct {
	*base
	group singleflight.Group
}

func NewJobParser(apiKey string, connect Connector, opts ...Option) *JobParser {
	return &JobParser{base: newBase(apiKey, connect, opts)}
}

// ParseJobDescription never loses the user's text: when the model call or
// its reply fails, the result is the raw text as the description. Only a
// missing credential or empty input is reported as an error, and even then
// the raw job is returned alongside it.
func (p *JobParser) ParseJobDescription(ctx context.Context, rawText string) (types.JobDescription, error) {
	parsed, err := p.Parse(ctx, rawText)
	return parsed.Job, err
}

// Parse is ParseJobDescription with the degradation flag exposed. Identical
// texts parsed concurrently share one model call.
func (p *JobParser) Parse(ctx context.Context, rawText string) (ParsedJob, error) {
	fallback := ParsedJob{
		Job:          normalize.RawJob(rawText),
		Degraded:     true,
		LooksLikeJob: jobs.IsLikelyJobDescription(rawText),
	}
	if strings.TrimSpace(rawText) == "" {
		return fallback, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"job description text cannot be empty", nil)
	}
	if !fallback.LooksLikeJob {
		p.logger.Warn("Text does not look like a job description", "keywords", jobs.KeywordMatches(rawText))
	}

	if _, err := p.gateway(ctx, config.OpParseJob); err != nil {
		p.record(ctx, EventJobParsed, false, attribute.Bool("degraded", true))
		return fallback, err
	}

	sum := sha256.Sum256([]byte(rawText))
	v, _, shared := p.group.Do(hex.EncodeToString(sum[:]), func() (any, error) {
		return p.parse(context.WithoutCancel(ctx), rawText), nil
	})
	if shared {
		p.logger.Debug("Shared in-flight job description parse")
	}

	job, ok := v.(*types.JobDescription)
	if !ok || job == nil {
		p.record(ctx, EventJobParsed, true, attribute.Bool("degraded", true))
		return fallback, nil
	}
	p.record(ctx, EventJobParsed, true, attribute.Bool("degraded", false))
	// Callers sharing a flight get their own copy of the slices.
	return ParsedJob{Job: normalize.JobRecord(*job), LooksLikeJob: fallback.LooksLikeJob}, nil
}

// parse returns nil when the job could not be structured.
func (p *JobParser) parse(ctx context.Context, rawText string) *types.JobDescription {
	resp, err := p.generate(ctx, config.OpParseJob, ai.Request{Parts: []string{prompts.JobParsing(rawText)}})
	if err != nil {
		p.logger.Warn("Job description parse degraded to raw text", "error", err.Error())
		return nil
	}
	raw, err := extract.JSON(resp.Text)
	if err != nil {
		p.logger.Warn("Job description reply had no JSON, using raw text", "error", err.Error())
		return nil
	}
	job, _ := normalize.Job(raw, rawText)
	return &job
}

// ParseFile extracts text from a PDF, DOCX or text file and parses it.
func (p *JobParser) ParseFile(ctx context.Context, f files.Encoded) (ParsedJob, error) {
	text, err := files.ExtractText(f)
	if err != nil {
		return ParsedJob{}, err
	}
	return p.Parse(ctx, text)
}
