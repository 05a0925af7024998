package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"cvwizard/internal/ai"
	cvwizardErrors "cvwizard/internal/errors"
	"cvwizard/internal/linkedin"
	"cvwizard/internal/wizard"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// operation runs one endpoint with a decoded and validated body. apiKey is
// the Gemini credential for this request, possibly empty.
type operation[Req any] func(ctx context.Context, apiKey string, req *Req) (any, error)

// handleJSON wraps an operation with the shared request handling: method
// check, span, JSON decoding, struct validation and error mapping.
func handleJSON[Req any](s *Server, tracer trace.Tracer, name string, run operation[Req]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "api."+name)
		defer span.End()
		span.SetAttributes(attribute.String("operation", name))

		var req Req
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.validate.Struct(&req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", validationMessage(err), http.StatusBadRequest)
			return
		}

		result, err := run(ctx, s.geminiKey(r), &req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "operation failed")
			s.writeAppError(ctx, w, name, err)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			s.Logger.LogError(err, "Failed to encode response", "operation", name)
		}
	}
}

// geminiKey prefers the caller's X-Goog-Api-Key over the configured key.
func (s *Server) geminiKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(GeminiKeyHeader)); key != "" {
		return key
	}
	return s.configuredKey()
}

func (s *Server) configuredKey() string {
	if s.AppConfig == nil {
		return ""
	}
	return s.AppConfig.APIKey()
}

// connector returns the gateway factory. Every gateway shares the server's
// breakers and reports calls to its metrics.
func (s *Server) connector() wizard.Connector {
	if s.Connect != nil {
		return s.Connect
	}
	opts := []ai.Option{ai.WithBreakers(s.Breakers)}
	if s.metrics != nil {
		opts = append(opts, ai.WithObserver(s.metrics))
	}
	return wizard.GeminiConnector(s.AppConfig, s.Logger, opts...)
}

func (s *Server) wizardOptions(ctx context.Context) []wizard.Option {
	return append(s.baseWizardOptions(),
		wizard.WithLogger(s.Logger.With("request_id", requestIDFrom(ctx))))
}

func (s *Server) baseWizardOptions() []wizard.Option {
	opts := []wizard.Option{wizard.WithLogger(s.Logger)}
	if s.metrics != nil {
		opts = append(opts, wizard.WithRecorder(s.metrics))
	}
	if s.AppConfig != nil {
		opts = append(opts, wizard.WithPlaceholderIdentity(s.AppConfig.App.AllowPlaceholderIdentity))
	}
	return opts
}

func (s *Server) extract(ctx context.Context, apiKey string, req *ExtractRequest) (any, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("request.files", len(req.Files)))
	extractor := wizard.NewExtractor(apiKey, s.connector(), s.wizardOptions(ctx)...)
	cv, report, err := extractor.ExtractUploads(ctx, req.Files)
	if err != nil {
		return nil, err
	}
	return CVResponse{CV: cv, Report: report}, nil
}

// importProfile is extraction with a completeness check. A batch of profile
// exports alone needs no Gemini key.
func (s *Server) importProfile(ctx context.Context, apiKey string, req *ExtractRequest) (any, error) {
	extractor := wizard.NewExtractor(apiKey, s.connector(), s.wizardOptions(ctx)...)
	cv, report, err := extractor.ExtractUploads(ctx, req.Files)
	if err != nil {
		return nil, err
	}
	return ImportResponse{CV: cv, Report: report, Warnings: linkedin.Validate(cv)}, nil
}

func (s *Server) enhance(ctx context.Context, apiKey string, req *EnhanceRequest) (any, error) {
	enhancer := wizard.NewEnhancer(apiKey, s.connector(), s.wizardOptions(ctx)...)
	cv, report, err := enhancer.EnhanceCV(ctx, req.CV, req.Job, req.Files)
	if err != nil {
		return nil, err
	}
	return CVResponse{CV: cv, Report: report}, nil
}

func (s *Server) quickEnhance(ctx context.Context, apiKey string, req *EnhanceRequest) (any, error) {
	enhancer := wizard.NewEnhancer(apiKey, s.connector(), s.wizardOptions(ctx)...)
	cv, report, err := enhancer.QuickEnhance(ctx, req.CV, req.Files)
	if err != nil {
		return nil, err
	}
	return CVResponse{CV: cv, Report: report}, nil
}

func (s *Server) coverLetter(ctx context.Context, apiKey string, req *CoverLetterRequest) (any, error) {
	enhancer := wizard.NewEnhancer(apiKey, s.connector(), s.wizardOptions(ctx)...)
	return enhancer.GenerateCoverLetter(ctx, req.CV, req.Job, req.Files)
}

func (s *Server) review(ctx context.Context, apiKey string, req *ReviewRequest) (any, error) {
	var session wizard.ReviewSession
	if req.Session != nil {
		session = *req.Session
	}
	if session.ReviewCount < 0 {
		return nil, cvwizardErrors.NewValidationError(cvwizardErrors.ErrCodeInvalidRequest,
			"session reviewCount must not be negative", nil)
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("review.number", session.ReviewCount+1))

	reviewer := wizard.NewReviewer(apiKey, s.connector(), s.wizardOptions(ctx)...)
	result, next, err := reviewer.ReviewApplicationMaterials(ctx, req.CV, req.Job, req.CoverLetter, session)
	if err != nil {
		return nil, err
	}
	return ReviewResponse{Result: result, Session: next}, nil
}

// modify answers 200 for a request the model judged invalid: that outcome is
// a result with Success false, not an error.
func (s *Server) modify(ctx context.Context, apiKey string, req *ModifyRequest) (any, error) {
	modifier := wizard.NewModifier(apiKey, s.connector(), s.wizardOptions(ctx)...)
	return modifier.Modify(ctx, req.Prompt, req.CV, req.CoverLetter, req.Job, req.Files)
}

func (s *Server) parseJob(ctx context.Context, apiKey string, req *ParseJobRequest) (any, error) {
	parser := s.jobParser(ctx, apiKey)

	var (
		parsed wizard.ParsedJob
		err    error
	)
	if req.File != nil {
		parsed, err = parser.ParseFile(ctx, *req.File)
	} else {
		parsed, err = parser.Parse(ctx, req.Text)
	}
	if err != nil {
		return nil, err
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Bool("job.degraded", parsed.Degraded),
		attribute.Bool("job.looks_like_job", parsed.LooksLikeJob),
	)
	return parsed, nil
}

// jobParser reuses one parser for the configured key so identical concurrent
// parses share a model call. Callers with their own key get a fresh parser.
func (s *Server) jobParser(ctx context.Context, apiKey string) *wizard.JobParser {
	if s.parser != nil && apiKey == s.configuredKey() {
		return s.parser
	}
	return wizard.NewJobParser(apiKey, s.connector(), s.wizardOptions(ctx)...)
}
