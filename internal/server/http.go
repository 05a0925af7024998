package server

import (
	"time"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
	cvwizardErrors "cvwizard/internal/errors"
	"cvwizard/internal/files"
	"cvwizard/internal/normalize"
	"cvwizard/internal/observability"
	"cvwizard/internal/types"
	"cvwizard/internal/wizard"

	"github.com/go-playground/validator/v10"
)

// ExtractRequest is the body of /extract and /import. Files are base64.
type ExtractRequest struct {
	Files []files.Encoded `json:"files" validate:"required,min=1,dive"`
}

// EnhanceRequest is the body of /enhance and /quick-enhance. Job is ignored
// by /quick-enhance.
type EnhanceRequest struct {
	CV    types.CVData         `json:"cv"`
	Job   types.JobDescription `json:"job"`
	Files []files.Encoded      `json:"files,omitempty" validate:"omitempty,dive"`
}

// CoverLetterRequest is the body of /cover-letter.
type CoverLetterRequest struct {
	CV    types.CVData         `json:"cv"`
	Job   types.JobDescription `json:"job"`
	Files []files.Encoded      `json:"files,omitempty" validate:"omitempty,dive"`
}

// ReviewRequest is the body of /review. Clients thread the returned session
// into the next call to get a re-analysis.
type ReviewRequest struct {
	CV          types.CVData          `json:"cv"`
	Job         types.JobDescription  `json:"job"`
	CoverLetter string                `json:"coverLetter,omitempty"`
	Session     *wizard.ReviewSession `json:"session,omitempty"`
}

// ModifyRequest is the body of /modify.
type ModifyRequest struct {
	Prompt      string               `json:"prompt" validate:"required"`
	CV          types.CVData         `json:"cv"`
	CoverLetter *types.CoverLetter   `json:"coverLetter,omitempty"`
	Job         types.JobDescription `json:"job"`
	Files       []files.Encoded      `json:"files,omitempty" validate:"omitempty,dive"`
}

// ParseJobRequest is the body of /parse-job: pasted text or one file.
type ParseJobRequest struct {
	Text string         `json:"text" validate:"required_without=File"`
	File *files.Encoded `json:"file,omitempty" validate:"omitempty"`
}

// CVResponse is returned by the CV producing endpoints.
type CVResponse struct {
	CV     types.CVData     `json:"cv"`
	Report normalize.Report `json:"report"`
}

// ImportResponse adds the completeness check to an imported CV.
type ImportResponse struct {
	CV       types.CVData     `json:"cv"`
	Report   normalize.Report `json:"report"`
	Warnings []string         `json:"warnings"`
}

// ReviewResponse carries the result and the successor session.
type ReviewResponse struct {
	Result  types.AIReviewResult `json:"result"`
	Session wizard.ReviewSession `json:"session"`
}

// ErrorResponse is the body of every non-2xx reply. Code is the AppError
// code when there is one.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server serves the wizard over HTTP.
type Server struct {
	Host, Port, Version string
	AppConfig           *config.Config

	// APIKeys are the access keys accepted in X-API-Key. Empty means open.
	APIKeys map[string]bool

	ReadTimeout, WriteTimeout, IdleTimeout time.Duration
	MaxRequestSize                         int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Breakers are shared by every per-request gateway, so a failing model
	// trips for all callers regardless of whose credential they use.
	Breakers *ai.Breakers

	// Connect opens a gateway for a Gemini key. Tests replace it with a
	// static fake.
	Connect wizard.Connector

	PromptWatcher *config.PromptWatcher
	VaultWatcher  *VaultWatcher

	Logger *cvwizardErrors.Logger

	validate *validator.Validate
	metrics  *observability.Metrics
	parser   *wizard.JobParser
}

// ServerConfig is the subset of configuration NewServer needs.
type ServerConfig struct {
	Host, Port, Version                    string
	APIKeys                                []string
	ReadTimeout, WriteTimeout, IdleTimeout time.Duration
	MaxRequestSize                         int64
	RateLimit                              *config.RateLimitConfig
}

// ServerConfigFrom derives the server settings from the application config.
func ServerConfigFrom(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxBodySize,
		RateLimit:      &cfg.Server.RateLimit,
	}
}

func NewServer(appCfg *config.Config, cfg ServerConfig, logger *cvwizardErrors.Logger) *Server {
	if logger == nil {
		logger = cvwizardErrors.Discard()
	}

	keys := make(map[string]bool, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		APIKeys:        keys,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		Breakers:       ai.NewBreakers(appCfg, logger),
		Logger:         logger,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
	if rl := cfg.RateLimit; rl != nil && rl.Enabled {
		s.RateLimiter = NewRateLimiter(rl.RequestsPerMin, rl.Window, rl.BurstCapacity, logger)
	}
	return s
}
