package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cvwizard/internal/config"
	cvwizardErrors "cvwizard/internal/errors"
	"cvwizard/internal/files"
	"cvwizard/internal/prompts"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const modelCheckTimeout = 10 * time.Second

// GeminiGateway implements Gateway for Google Gemini
type GeminiGateway struct {
	client      *genai.Client
	runtimes    map[config.Operation]*operationRuntime
	breakers    *Breakers
	observer    CallObserver
	logger      *cvwizardErrors.Logger
	backoffBase time.Duration
}

var _ Gateway = (*GeminiGateway)(nil)

type operationRuntime struct {
	op      config.Operation
	cfg     config.OperationAIConfig
	breaker *Breaker[*genai.GenerateContentResponse]
	model   *Breaker[*genai.Model]
}

// Option customizes a GeminiGateway.
type Option func(*GeminiGateway)

// WithBreakers shares circuit breakers between gateways. The HTTP server
// builds one gateway per credential and must keep breaker state across them.
func WithBreakers(b *Breakers) Option {
	return func(g *GeminiGateway) { g.breakers = b }
}

// WithObserver reports every call, typically to the metrics pipeline.
func WithObserver(o CallObserver) Option {
	return func(g *GeminiGateway) { g.observer = o }
}

// NewGeminiGateway creates a client bound to apiKey. The key is required;
// callers resolve it before constructing the gateway.
func NewGeminiGateway(ctx context.Context, apiKey string, cfg *config.Config, logger *cvwizardErrors.Logger, opts ...Option) (*GeminiGateway, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, cvwizardErrors.NewMissingAPIKeyError("gateway")
	}
	if logger == nil {
		logger = cvwizardErrors.Discard()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, cvwizardErrors.NewAIError(cvwizardErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	g := &GeminiGateway{
		client:      client,
		logger:      logger,
		backoffBase: time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.breakers == nil {
		g.breakers = NewBreakers(cfg, logger)
	}

	g.runtimes = make(map[config.Operation]*operationRuntime, len(config.Operations()))
	for _, op := range config.Operations() {
		opCfg := cfg.Operation(op)
		if opCfg.Provider != "" && opCfg.Provider != "gemini" {
			return nil, cvwizardErrors.NewConfigError(cvwizardErrors.ErrCodeInvalidConfig,
				fmt.Sprintf("Unsupported AI provider for %s: %s", op, opCfg.Provider), nil)
		}
		g.runtimes[op] = &operationRuntime{
			op:      op,
			cfg:     opCfg,
			breaker: g.breakers.generation[op],
			model:   g.breakers.model[op],
		}
		logger.Debug("Configured AI operation",
			"operation", op.String(),
			"model", opCfg.Model,
			"grounding", opCfg.GroundingEnabled(),
			"use_system_prompts", opCfg.SystemPromptsEnabled())
	}

	return g, nil
}

// Generate sends one user turn made of text parts and inline files.
func (g *GeminiGateway) Generate(ctx context.Context, op config.Operation, req Request) (Response, error) {
	rt, err := g.runtime(op)
	if err != nil {
		return Response{}, err
	}

	parts, err := buildParts(req)
	if err != nil {
		return Response{}, err
	}
	genCfg := rt.generateConfig()
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	return g.call(ctx, rt, len(req.Files), func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, rt.cfg.Model, contents, genCfg)
	})
}

// ContinueChat replays history into a new chat and sends prompt as the next
// user message.
func (g *GeminiGateway) ContinueChat(ctx context.Context, op config.Operation, history []Turn, prompt string) (Response, error) {
	rt, err := g.runtime(op)
	if err != nil {
		return Response{}, err
	}
	if strings.TrimSpace(prompt) == "" {
		return Response{}, cvwizardErrors.NewValidationError(cvwizardErrors.ErrCodeInvalidRequest,
			"chat message cannot be empty", nil)
	}

	genCfg := rt.generateConfig()
	contents := buildHistory(history)

	return g.call(ctx, rt, 0, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		chat, err := g.client.Chats.Create(ctx, rt.cfg.Model, genCfg, contents)
		if err != nil {
			return nil, err
		}
		return chat.SendMessage(ctx, genai.Part{Text: prompt})
	})
}

func (g *GeminiGateway) call(ctx context.Context, rt *operationRuntime, fileCount int, fn func(context.Context) (*genai.GenerateContentResponse, error)) (Response, error) {
	tracer := otel.Tracer("cvwizard.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+rt.op.String())
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", rt.cfg.Model),
		attribute.Float64("ai.temperature", float64(temperatureOf(rt.cfg))),
		attribute.Bool("ai.grounding", rt.cfg.GroundingEnabled()),
		attribute.Int("input.files", fileCount),
	)

	if rt.cfg.Timeout != nil && *rt.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *rt.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := rt.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, rt, func() (*genai.GenerateContentResponse, error) {
			return fn(ctx)
		})
	})
	usage := extractTokenUsage(result)

	if err != nil {
		err = classifyError(ctx, rt, err)
	}
	if g.observer != nil {
		g.observer.ObserveCall(ctx, rt.op, rt.cfg.Model, time.Since(start).Seconds(), usage, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return Response{}, err
	}

	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))

	return Response{Text: result.Text(), Usage: usage}, nil
}

// classifyError maps provider failures onto the generation error family.
// Provider detail stays in the cause chain and the logs.
func classifyError(ctx context.Context, rt *operationRuntime, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		timeout := time.Duration(0)
		if rt.cfg.Timeout != nil {
			timeout = *rt.cfg.Timeout
		}
		return cvwizardErrors.NewAIError(cvwizardErrors.ErrCodeAITimeout,
			fmt.Sprintf("%s timed out after %s, please retry", rt.op, timeout), err).
			WithContext("operation", rt.op.String())
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return cvwizardErrors.NewAIError(cvwizardErrors.ErrCodeAIServiceFailed,
			"AI service is temporarily unavailable, please retry", err).
			WithContext("operation", rt.op.String())
	default:
		return cvwizardErrors.NewGenerationError(err).WithContext("operation", rt.op.String())
	}
}

func (g *GeminiGateway) runtime(op config.Operation) (*operationRuntime, error) {
	rt, ok := g.runtimes[op]
	if !ok {
		return nil, cvwizardErrors.NewValidationError(cvwizardErrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown operation %q", op), nil)
	}
	return rt, nil
}

// generateConfig builds the per-call settings: temperature, grounding tools
// and the system instruction.
func (rt *operationRuntime) generateConfig() *genai.GenerateContentConfig {
	genCfg := &genai.GenerateContentConfig{}

	if t := temperatureOf(rt.cfg); t > 0 {
		genCfg.Temperature = genai.Ptr(t)
	}

	if rt.cfg.GroundingEnabled() {
		genCfg.Tools = []*genai.Tool{
			{URLContext: &genai.URLContext{}},
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	if rt.cfg.SystemPromptsEnabled() {
		system := rt.cfg.SystemPrompt
		if system == "" {
			system = prompts.System(rt.op)
		}
		if system != "" {
			genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
		}
	}

	return genCfg
}

func temperatureOf(cfg config.OperationAIConfig) float32 {
	if cfg.Temperature == nil {
		return 0
	}
	return *cfg.Temperature
}

// buildParts leads with the prompt text and appends uploads in request order.
func buildParts(req Request) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(req.Files)+len(req.Parts))
	for _, text := range req.Parts {
		if text == "" {
			continue
		}
		parts = append(parts, genai.NewPartFromText(text))
	}
	for _, f := range req.Files {
		prepared, err := files.ForModel(f)
		if err != nil {
			return nil, err
		}
		data, err := prepared.Bytes()
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromBytes(data, prepared.MIMEType))
	}
	if len(parts) == 0 {
		return nil, cvwizardErrors.NewValidationError(cvwizardErrors.ErrCodeInvalidRequest,
			"generation request has no content", nil)
	}
	return parts, nil
}

func buildHistory(history []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	return contents
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the model configured
// for op.
func (g *GeminiGateway) GetModelInfo(ctx context.Context, op config.Operation) *ModelInfo {
	rt, err := g.runtime(op)
	if err != nil {
		return &ModelInfo{Error: err.Error()}
	}
	info := &ModelInfo{Name: rt.cfg.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := rt.model.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, rt.cfg.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", rt.cfg.Model,
			"operation", op.String(),
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	return info
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
