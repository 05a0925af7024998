package server

import (
	"fmt"
	"io"
	"strings"

	"cvwizard/internal/utils"
)

// routeSummary lists the routes printed in the startup banner.
var routeSummary = []struct{ method, path, about string }{
	{"GET", "/health", "liveness and dependency status"},
	{"GET", "/stats", "rate limiter and breaker state"},
	{"GET", "/metrics", "Prometheus scrape (when enabled)"},
	{"POST", "/extract", "CV from uploaded files"},
	{"POST", "/import", "CV from a JSON Resume or LinkedIn export"},
	{"POST", "/enhance", "CV tailored to a job description"},
	{"POST", "/quick-enhance", "CV polish without a job description"},
	{"POST", "/cover-letter", "cover letter"},
	{"POST", "/review", "review of application materials"},
	{"POST", "/modify", "free-text change request"},
	{"POST", "/parse-job", "structured job description"},
}

// writeBanner prints the routes and the security posture of the server.
func (s *Server) writeBanner(w io.Writer) {
	var b strings.Builder

	b.WriteString("Routes:\n")
	for _, r := range routeSummary {
		fmt.Fprintf(&b, "  %-4s %-15s %s\n", r.method, r.path, r.about)
	}

	switch n := len(s.APIKeys); {
	case n > 0:
		fmt.Fprintf(&b, "Access keys: %d configured, send X-API-Key on POST routes\n", n)
	default:
		b.WriteString("Access keys: none configured, POST routes are open\n")
	}

	if s.configuredKey() != "" {
		fmt.Fprintf(&b, "Gemini key: server default, overridable with %s\n", GeminiKeyHeader)
	} else {
		fmt.Fprintf(&b, "Gemini key: none, every request must send %s\n", GeminiKeyHeader)
	}

	if s.MaxRequestSize > 0 {
		fmt.Fprintf(&b, "Body limit: %s\n", utils.FormatFileSize(s.MaxRequestSize))
	} else {
		b.WriteString("Body limit: unlimited\n")
	}

	if rl := s.RateLimit; rl != nil && rl.Enabled {
		var scope []string
		if rl.ByAPIKey {
			scope = append(scope, "access key")
		}
		if rl.ByIP {
			scope = append(scope, "client IP")
		}
		if len(scope) == 0 {
			scope = append(scope, "one shared bucket")
		}
		fmt.Fprintf(&b, "Rate limit: %d/min, burst %d, keyed by %s\n",
			rl.RequestsPerMin, rl.BurstCapacity, strings.Join(scope, " then "))
	} else {
		b.WriteString("Rate limit: off\n")
	}

	_, _ = io.WriteString(w, b.String())
}
