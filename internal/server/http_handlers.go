package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
	cvwizardErrors "cvwizard/internal/errors"

	"github.com/go-playground/validator/v10"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if s.AppConfig == nil || s.AppConfig.Observability.HealthCheck.Timeout <= 0 {
		return 15 * time.Second
	}
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler reports model availability for the configured key and the
// state of the shared circuit breakers.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "cvwizard",
		"version": s.Version,
	}

	aiStatus, modelsHealthy := s.checkAIModelsHealth(r.Context())
	response["ai_models"] = aiStatus

	breakersHealthy := true
	if s.Breakers != nil {
		response["circuit_breakers"] = s.Breakers.Stats()
		breakersHealthy = s.Breakers.Healthy()
	}

	if watchers := s.watcherStatus(); len(watchers) > 0 {
		response["prompt_reload"] = watchers
	}

	status := http.StatusOK
	if !modelsHealthy || !breakersHealthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

// checkAIModelsHealth asks the provider about every operation's model. Without
// a configured key there is nothing to check: callers bring their own key.
func (s *Server) checkAIModelsHealth(parent context.Context) (map[string]any, bool) {
	key := s.configuredKey()
	if key == "" || s.Connect != nil {
		return map[string]any{"configured": false}, true
	}

	ctx, cancel := context.WithTimeout(parent, s.getHealthCheckTimeout())
	defer cancel()

	gateway, err := ai.NewGeminiGateway(ctx, key, s.AppConfig, s.Logger, ai.WithBreakers(s.Breakers))
	if err != nil {
		return map[string]any{
			"configured": true,
			"error":      fmt.Sprintf("Failed to create gateway: %v", err),
		}, false
	}

	aiStatus := map[string]any{"configured": true}
	healthy := true
	for _, op := range config.Operations() {
		info := gateway.GetModelInfo(ctx, op)
		aiStatus[op.String()] = info
		if !info.Available {
			healthy = false
		}
	}
	return aiStatus, healthy
}

func (s *Server) watcherStatus() map[string]any {
	status := map[string]any{}
	if s.PromptWatcher != nil {
		status["file_watcher_running"] = s.PromptWatcher.IsRunning()
	}
	if s.VaultWatcher != nil {
		status["vault_watcher"] = s.VaultWatcher.Status()
	}
	return status
}

type rateLimitStats struct {
	Enabled        bool `json:"enabled"`
	RequestsPerMin int  `json:"requests_per_min"`
	BurstCapacity  int  `json:"burst_capacity"`
	ByIP           bool `json:"by_ip"`
	ByAPIKey       bool `json:"by_api_key"`
}

// statsHandler reports limits, prompt overrides and breaker state. It never
// calls the model.
func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"service": "cvwizard",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
		},
		"prompts":       map[string]any{"overrides_loaded": config.Prompts().Len()},
		"rate_limiting": map[string]any{"enabled": false},
	}
	if s.RateLimiter != nil {
		resp["rate_limiting"] = s.RateLimiter.GetStats()
	}
	if rl := s.RateLimit; rl != nil {
		resp["rate_limit_config"] = rateLimitStats{rl.Enabled, rl.RequestsPerMin, rl.BurstCapacity, rl.ByIP, rl.ByAPIKey}
	}
	if s.Breakers != nil {
		resp["circuit_breakers"] = s.Breakers.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseJSONRequest decodes a JSON body into v. Errors are phrased for the
// caller.
func parseJSONRequest(r *http.Request, v any) error {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}
	defer func() { _ = r.Body.Close() }()

	err := json.NewDecoder(r.Body).Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return fmt.Errorf("request body too large (limit is %d bytes)", tooLarge.Limit)
	case errors.Is(err, io.EOF):
		return fmt.Errorf("request body is empty")
	default:
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "ExtractRequest.Files[0].Data"; drop the type name
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %q", field, fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// statusFor maps the error taxonomy onto HTTP statuses: bad input and missing
// credentials are the caller's to fix, provider trouble is a bad gateway and
// an exhausted time budget is a gateway timeout.
func statusFor(err error) int {
	appErr, ok := cvwizardErrors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch {
	case appErr.Code == cvwizardErrors.ErrCodeAITimeout:
		return http.StatusGatewayTimeout
	case appErr.Type == cvwizardErrors.ErrorTypeValidation, appErr.Type == cvwizardErrors.ErrorTypeConfig:
		return http.StatusBadRequest
	case cvwizardErrors.IsExtractionError(err), cvwizardErrors.IsGenerationError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError logs the full error and answers with its public shape only.
func (s *Server) writeAppError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status := statusFor(err)
	s.Logger.LogError(err, "Operation failed",
		"operation", operation,
		"status", status,
		"request_id", requestIDFrom(ctx))

	appErr, ok := cvwizardErrors.As(err)
	if !ok {
		writeJSON(w, status, ErrorResponse{Error: http.StatusText(status)})
		return
	}
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// writeErrorResponse replies with an error that has no AppError behind it.
func writeErrorResponse(w http.ResponseWriter, title, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   title,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
