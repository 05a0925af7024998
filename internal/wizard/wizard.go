// Package wizard holds the orchestrators: one type per user-facing AI
// capability, each composing a prompt builder, a gateway call and a
// normalizer. Orchestrators hold no per-call state and are safe for
// concurrent use.
package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
	"cvwizard/internal/errors"
)

// Connector builds a gateway bound to one credential.
type Connector func(ctx context.Context, apiKey string) (ai.Gateway, error)

// GeminiConnector connects to Gemini with per-operation settings from cfg.
func GeminiConnector(cfg *config.Config, logger *errors.Logger, opts ...ai.Option) Connector {
	return func(ctx context.Context, apiKey string) (ai.Gateway, error) {
		return ai.NewGeminiGateway(ctx, apiKey, cfg, logger, opts...)
	}
}

// StaticConnector always returns gw.
func StaticConnector(gw ai.Gateway) Connector {
	return func(context.Context, string) (ai.Gateway, error) { return gw, nil }
}

// Recorder receives business events, e.g. "cv_extracted".
type Recorder interface {
	Record(ctx context.Context, event string, success bool, attrs ...attribute.KeyValue)
}

// Business events emitted by the orchestrators.
const (
	EventCVExtracted          = "cv_extracted"
	EventCVEnhanced           = "cv_enhanced"
	EventCoverLetter          = "cover_letter_generated"
	EventReview               = "review_completed"
	EventModification         = "modification_processed"
	EventJobParsed            = "job_description_parsed"
	EventPlaceholderIdentity  = "placeholder_identity_applied"
	EventProfileExportsMerged = "profile_exports_merged"
)

type options struct {
	logger                   *errors.Logger
	recorder                 Recorder
	now                      func() time.Time
	allowPlaceholderIdentity bool
	requireIdentity          bool
}

// Option configures an orchestrator.
type Option func(*options)

func WithLogger(l *errors.Logger) Option { return func(o *options) { o.logger = l } }

func WithRecorder(r Recorder) Option { return func(o *options) { o.recorder = r } }

// WithClock replaces time.Now for review timestamps.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithPlaceholderIdentity controls the "John Doe" / "Professional" fallback
// of enhanced CVs. It is on by default.
func WithPlaceholderIdentity(allow bool) Option {
	return func(o *options) { o.allowPlaceholderIdentity = allow }
}

// WithRequireIdentity makes enhancement fail instead of returning a CV
// whose name or title had to be defaulted or left empty.
func WithRequireIdentity(require bool) Option {
	return func(o *options) { o.requireIdentity = require }
}

// base carries the credential and lazily connects on the first call that
// needs the model.
type base struct {
	options
	apiKey  string
	connect Connector

	mu sync.Mutex
	gw ai.Gateway
}

func newBase(apiKey string, connect Connector, opts []Option) *base {
	b := &base{
		options: options{
			logger:                   errors.Discard(),
			recorder:                 noopRecorder{},
			now:                      time.Now,
			allowPlaceholderIdentity: true,
		},
		apiKey:  apiKey,
		connect: connect,
	}
	for _, opt := range opts {
		opt(&b.options)
	}
	return b
}

// gateway fails with a configuration error, before any network activity,
// when no credential was supplied.
func (b *base) gateway(ctx context.Context, op config.Operation) (ai.Gateway, error) {
	if strings.TrimSpace(b.apiKey) == "" {
		return nil, errors.NewMissingAPIKeyError(op.String())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gw == nil {
		gw, err := b.connect(ctx, b.apiKey)
		if err != nil {
			return nil, err
		}
		b.gw = gw
	}
	return b.gw, nil
}

func (b *base) generate(ctx context.Context, op config.Operation, req ai.Request) (ai.Response, error) {
	gw, err := b.gateway(ctx, op)
	if err != nil {
		return ai.Response{}, err
	}

	b.logger.Debug("Starting AI operation", "operation", op.String(), "files", len(req.Files))
	resp, err := gw.Generate(ctx, op, req)
	if err != nil {
		b.logger.LogError(err, "AI operation failed", "operation", op.String())
		return ai.Response{}, err
	}
	b.logFinished(op, resp)
	return resp, nil
}

func (b *base) logFinished(op config.Operation, resp ai.Response) {
	args := []any{"operation", op.String(), "response_bytes", len(resp.Text)}
	if resp.Usage != nil {
		args = append(args, "tokens_total", resp.Usage.TotalTokens)
	}
	b.logger.Info("AI operation finished", args...)
}

func (b *base) record(ctx context.Context, event string, success bool, attrs ...attribute.KeyValue) {
	b.recorder.Record(ctx, event, success, attrs...)
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, string, bool, ...attribute.KeyValue) {}
