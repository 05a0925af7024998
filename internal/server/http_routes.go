package server

import (
	"context"
	"net/http"
	"strings"

	"cvwizard/internal/observability"
	"cvwizard/internal/wizard"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = iota

// GeminiKeyHeader lets a caller run operations with their own Gemini key
// instead of the server's configured one.
const GeminiKeyHeader = "X-Goog-Api-Key"

// Handler builds the complete HTTP handler. Start serves it; tests call it
// directly.
func (s *Server) Handler(om *observability.Manager) http.Handler {
	s.metrics = om.GetMetrics()
	if key := s.configuredKey(); key != "" {
		s.parser = wizard.NewJobParser(key, s.connector(), s.baseWizardOptions()...)
	}
	mux := s.setupRoutes(om)
	return requestIDMiddleware(om.HTTPMiddleware()(observability.ObservabilityMiddleware(om)(mux)))
}

// setupRoutes registers the probes and the wizard endpoints. Wizard
// endpoints run behind the rate limiter, access-key check and body limit,
// in that order.
func (s *Server) setupRoutes(om *observability.Manager) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	if h := om.MetricsHandler(); h != nil {
		mux.Handle(om.MetricsPath(), h)
	}

	limit, bodyLimit := s.rateLimitMiddleware(), s.requestSizeLimitMiddleware()
	tracer := om.Tracer("cvwizard.api")
	for _, rt := range []struct {
		path string
		h    http.HandlerFunc
	}{
		{"/extract", handleJSON(s, tracer, "extract", s.extract)},
		{"/import", handleJSON(s, tracer, "import", s.importProfile)},
		{"/enhance", handleJSON(s, tracer, "enhance", s.enhance)},
		{"/quick-enhance", handleJSON(s, tracer, "quick_enhance", s.quickEnhance)},
		{"/cover-letter", handleJSON(s, tracer, "cover_letter", s.coverLetter)},
		{"/review", handleJSON(s, tracer, "review", s.review)},
		{"/modify", handleJSON(s, tracer, "modify", s.modify)},
		{"/parse-job", handleJSON(s, tracer, "parse_job", s.parseJob)},
	} {
		mux.HandleFunc("POST "+rt.path, limit(s.authMiddleware(bodyLimit(rt.h))))
	}
	return mux
}

// requestIDMiddleware propagates a caller supplied X-Request-ID or assigns a
// fresh uuid, and echoes it on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(observability.RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(observability.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// authMiddleware requires one of the configured access keys. With none
// configured every request passes.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		log := s.Logger.With("endpoint", r.URL.Path, "client_ip", getClientIP(r))
		switch key := clientAPIKey(r); {
		case key == "":
			log.Info("Rejected request without access key")
			writeErrorResponse(w, "Missing API key", "send X-API-Key or an Authorization Bearer token", http.StatusUnauthorized)
		case !s.APIKeys[key]:
			log.Info("Rejected unknown access key", "api_key_prefix", maskAPIKey(key))
			writeErrorResponse(w, "Invalid API key", "unknown access key", http.StatusUnauthorized)
		default:
			next(w, r)
		}
	}
}

// clientAPIKey reads the server credential from X-API-Key or a Bearer token.
func clientAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// requestSizeLimitMiddleware caps the body at MaxRequestSize when set.
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if s.MaxRequestSize <= 0 {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			next(w, r)
		}
	}
}

// maskAPIKey keeps the first 8 characters of a key for log lines.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "****"
}
