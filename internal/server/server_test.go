package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvwizard/internal/ai"
	"cvwizard/internal/ai/aitest"
	"cvwizard/internal/config"
	cvwizardErrors "cvwizard/internal/errors"
	"cvwizard/internal/files"
	"cvwizard/internal/observability"
	"cvwizard/internal/types"
	"cvwizard/internal/wizard"
)

const extractReply = "```json\n" + `{
	"personalInfo": {"fullName": "Jane Smith", "email": "jane.smith@corp.io"},
	"experience": [{"company": "Acme", "position": "SRE", "startDate": "2020-01"}]
}` + "\n```"

const reviewReply = `{
	"resumeReview": {"overallScore": 74, "summary": "Clear and focused.", "criticalIssues": [], "quickWins": ["Quantify impact"]},
	"coverLetterReview": null,
	"compatibilityScore": 70
}`

type testServer struct {
	*Server
	handler http.Handler
	gw      *aitest.Gateway
}

// newTestServer builds a server whose gateways are the scripted fake. The
// configured Gemini key is key; pass "" to exercise per-request keys.
func newTestServer(t *testing.T, key string, mutate func(*config.Config, *ServerConfig)) *testServer {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")

	cfg := &config.Config{}
	cfg.AI.APIKey = key
	cfg.App.AllowPlaceholderIdentity = true
	sc := ServerConfig{Host: "127.0.0.1", Port: "0", Version: "test"}
	if mutate != nil {
		mutate(cfg, &sc)
	}

	s := NewServer(cfg, sc, cvwizardErrors.Discard())
	gw := aitest.NewGateway()
	s.Connect = wizard.StaticConnector(gw)
	t.Cleanup(func() {
		if s.RateLimiter != nil {
			s.RateLimiter.Close()
		}
	})

	om, err := observability.NewManager(observability.Settings{}, nil)
	require.NoError(t, err)

	return &testServer{Server: s, handler: s.Handler(om), gw: gw}
}

func (ts *testServer) post(t *testing.T, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func pdfUpload() ExtractRequest {
	return ExtractRequest{Files: []files.Encoded{files.Encode("cv.pdf", []byte("%PDF-1.4 test"))}}
}

func sampleCV() types.CVData {
	return types.CVData{
		PersonalInfo: types.PersonalInfo{FullName: "Jane Smith", Title: "Engineer", Email: "jane.smith@corp.io"},
		Experience: []types.Experience{
			{ID: "exp-0", Company: "Acme", Position: "SRE", StartDate: "2020-01", EndDate: "Present",
				Description: []string{"Ran infra"}, Technologies: []string{"Go"}},
		},
		Education:      []types.Education{},
		Skills:         []types.Skill{{Category: "Languages", Items: []string{"Go"}}},
		Projects:       []types.Project{},
		Certifications: []types.Certification{},
		Languages:      []types.Language{},
	}
}

func sampleJob() types.JobDescription {
	return types.JobDescription{Title: "Platform Engineer", Company: "Globex", Description: "Run the platform"}
}

func TestExtractEndpoint(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)
	ts.gw.Reply(config.OpExtract, extractReply)

	rec := ts.post(t, "/extract", pdfUpload(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[CVResponse](t, rec)
	assert.Equal(t, "Jane Smith", resp.CV.PersonalInfo.FullName)
	require.Len(t, resp.CV.Experience, 1)
	assert.Equal(t, "exp-1", resp.CV.Experience[0].ID)
	assert.Equal(t, config.OpExtract, ts.gw.LastCall().Op)
}

func TestMissingGeminiKey(t *testing.T) {
	ts := newTestServer(t, "", nil)

	rec := ts.post(t, "/extract", pdfUpload(), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, cvwizardErrors.ErrCodeMissingAPIKey, resp.Code)
	assert.Empty(t, ts.gw.Calls(), "no model call without a credential")
}

func TestCallerSuppliedGeminiKey(t *testing.T) {
	ts := newTestServer(t, "", nil)
	ts.gw.Reply(config.OpExtract, extractReply)

	var (
		mu  sync.Mutex
		got []string
	)
	ts.Connect = func(_ context.Context, key string) (ai.Gateway, error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, key)
		return ts.gw, nil
	}

	rec := ts.post(t, "/extract", pdfUpload(), map[string]string{GeminiKeyHeader: "caller-key"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"caller-key"}, got)
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t, "server-key", func(_ *config.Config, sc *ServerConfig) {
		sc.APIKeys = []string{"client-secret"}
	})
	ts.gw.Reply(config.OpExtract, extractReply)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"x-api-key", map[string]string{"X-API-Key": "client-secret"}, http.StatusOK},
		{"bearer token", map[string]string{"Authorization": "Bearer client-secret"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.post(t, "/extract", pdfUpload(), tt.headers)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, "server-key", func(_ *config.Config, sc *ServerConfig) {
		sc.RateLimit = &config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 1, ByIP: true}
	})
	ts.gw.Reply(config.OpExtract, extractReply)

	first := ts.post(t, "/extract", pdfUpload(), nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := ts.post(t, "/extract", pdfUpload(), nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestRequestValidation(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)

	tests := []struct {
		name    string
		path    string
		body    any
		message string
	}{
		{"no files", "/extract", ExtractRequest{}, "Files"},
		{"file without data", "/extract", ExtractRequest{Files: []files.Encoded{{Name: "cv.pdf"}}}, "Files[0].Data"},
		{"data not base64", "/import", ExtractRequest{Files: []files.Encoded{{Name: "cv.pdf", Data: "***"}}}, "base64"},
		{"empty modification", "/modify", ModifyRequest{CV: sampleCV()}, "Prompt"},
		{"job without text or file", "/parse-job", ParseJobRequest{}, "Text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.post(t, tt.path, tt.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[ErrorResponse](t, rec).Message, tt.message)
		})
	}
	assert.Empty(t, ts.gw.Calls())
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		small := newTestServer(t, "server-key", func(_ *config.Config, sc *ServerConfig) {
			sc.MaxRequestSize = 16
		})
		rec := small.post(t, "/extract", pdfUpload(), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[ErrorResponse](t, rec).Message, "too large")
	})
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)

	for _, path := range []string{"/extract", "/review", "/parse-job"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestInvalidModificationIsOK(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)
	ts.gw.Reply(config.OpModify, `{"success": false, "type": "resume", "message": "Please describe a concrete change."}`)

	rec := ts.post(t, "/modify", ModifyRequest{Prompt: "what's the weather?", CV: sampleCV(), Job: sampleJob()}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decode[types.ModificationResult](t, rec)
	assert.False(t, result.Success)
	assert.Nil(t, result.ModifiedResume)
	assert.Equal(t, "Please describe a concrete change.", result.Message)
}

func TestReviewSessionThreading(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)
	ts.gw.Reply(config.OpReview, reviewReply)

	rec := ts.post(t, "/review", ReviewRequest{CV: sampleCV(), Job: sampleJob()}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[ReviewResponse](t, rec)
	assert.Equal(t, 74.0, first.Result.ResumeReview.OverallScore)
	assert.Equal(t, 1, first.Session.ReviewCount)
	assert.Len(t, first.Session.History, 2)
	assert.False(t, ts.gw.LastCall().Chat)

	rec = ts.post(t, "/review", ReviewRequest{CV: sampleCV(), Job: sampleJob(), Session: &first.Session}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[ReviewResponse](t, rec)
	assert.Equal(t, 2, second.Session.ReviewCount)
	assert.Len(t, second.Session.History, 4)

	call := ts.gw.LastCall()
	assert.True(t, call.Chat, "a threaded session continues the conversation")
	assert.Len(t, call.History, 2)

	t.Run("negative count", func(t *testing.T) {
		bad := wizard.ReviewSession{ReviewCount: -1}
		rec := ts.post(t, "/review", ReviewRequest{CV: sampleCV(), Job: sampleJob(), Session: &bad}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGenerationFailureIsBadGateway(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)
	ts.gw.Fail(config.OpEnhance, cvwizardErrors.NewGenerationError(fmt.Errorf("upstream 500")))

	rec := ts.post(t, "/enhance", EnhanceRequest{CV: sampleCV(), Job: sampleJob()}, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, cvwizardErrors.ErrCodeGenerationFailed, resp.Code)
	assert.NotContains(t, rec.Body.String(), "upstream 500", "causes stay in the logs")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing key", cvwizardErrors.NewMissingAPIKeyError("extract"), http.StatusBadRequest},
		{"validation", cvwizardErrors.NewValidationError(cvwizardErrors.ErrCodeInvalidRequest, "bad", nil), http.StatusBadRequest},
		{"timeout", cvwizardErrors.NewAIError(cvwizardErrors.ErrCodeAITimeout, "slow", nil), http.StatusGatewayTimeout},
		{"generation", cvwizardErrors.NewGenerationError(nil), http.StatusBadGateway},
		{"extraction", cvwizardErrors.NewExtractionError(nil), http.StatusBadGateway},
		{"service down", cvwizardErrors.NewAIError(cvwizardErrors.ErrCodeAIServiceFailed, "open", nil), http.StatusBadGateway},
		{"internal", cvwizardErrors.NewInternalError("X", "boom", nil), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", cvwizardErrors.NewMissingAPIKeyError("review")), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)

	get := func(id string) string {
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		if id != "" {
			req.Header.Set(observability.RequestIDHeader, id)
		}
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		return rec.Header().Get(observability.RequestIDHeader)
	}

	generated := get("")
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	supplied := uuid.NewString()
	assert.Equal(t, supplied, get(supplied))

	replaced := get("not a uuid")
	assert.NotEqual(t, "not a uuid", replaced)
	_, err = uuid.Parse(replaced)
	assert.NoError(t, err)
}

func TestHealthAndStats(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "cvwizard", health["service"])
	assert.Contains(t, health, "circuit_breakers")

	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, "test", stats["version"])
	assert.Equal(t, map[string]any{"enabled": false}, stats["rate_limiting"])
}

func TestParseJobEndpoint(t *testing.T) {
	ts := newTestServer(t, "server-key", nil)
	ts.gw.Reply(config.OpParseJob, `{"title": "Senior Go Engineer", "company": "Globex",
		"description": "Build services", "skills": ["Go"]}`)

	rec := ts.post(t, "/parse-job", ParseJobRequest{Text: "Senior Go Engineer at Globex. We need Go and Kubernetes experience."}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	parsed := decode[wizard.ParsedJob](t, rec)
	assert.Equal(t, "Senior Go Engineer", parsed.Job.Title)
	assert.False(t, parsed.Degraded)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijkl"))
}

func TestWriteBanner(t *testing.T) {
	ts := newTestServer(t, "", func(_ *config.Config, sc *ServerConfig) {
		sc.APIKeys = []string{"a", "b"}
		sc.MaxRequestSize = 10 * 1024 * 1024
		sc.RateLimit = &config.RateLimitConfig{Enabled: true, RequestsPerMin: 30, BurstCapacity: 5, ByAPIKey: true, ByIP: true}
	})

	var buf bytes.Buffer
	ts.writeBanner(&buf)
	out := buf.String()

	assert.Contains(t, out, "/parse-job")
	assert.Contains(t, out, "Access keys: 2 configured")
	assert.Contains(t, out, "Gemini key: none, every request must send "+GeminiKeyHeader)
	assert.Contains(t, out, "Body limit: 10.0 MB")
	assert.Contains(t, out, "Rate limit: 30/min, burst 5, keyed by access key then client IP")
}
