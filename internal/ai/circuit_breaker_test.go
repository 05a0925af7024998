package ai

import (
	"errors"
	"testing"
	"time"

	"cvwizard/internal/config"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

func enabledBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
}

func TestIndependentOperationBreakers(t *testing.T) {
	extract := NewGenerationBreaker(config.OpExtract, enabledBreakerConfig(), nil)
	review := NewGenerationBreaker(config.OpReview, enabledBreakerConfig(), nil)

	tests := []struct {
		name     string
		breaker  *Breaker[*genai.GenerateContentResponse]
		expected string
	}{
		{"extract", extract, "AI-extract"},
		{"review", review, "AI-review"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := tt.breaker.Stats()
			if name, _ := stats["name"].(string); name != tt.expected {
				t.Errorf("Expected circuit breaker name '%s', got '%s'", tt.expected, name)
			}
			if state, _ := stats["state"].(string); state != "closed" {
				t.Errorf("Expected initial state 'closed', got '%s'", state)
			}
			if enabled, _ := stats["enabled"].(bool); !enabled {
				t.Error("Circuit breaker should be enabled")
			}
		})
	}

	t.Run("trips independently", func(t *testing.T) {
		fail := func() (*genai.GenerateContentResponse, error) { return nil, errors.New("boom") }
		_, _ = extract.Execute(fail)
		_, _ = extract.Execute(fail)

		if extract.IsHealthy() {
			t.Error("extract breaker should be open after repeated failures")
		}
		if !review.IsHealthy() {
			t.Error("review breaker should be unaffected")
		}

		_, err := extract.Execute(func() (*genai.GenerateContentResponse, error) {
			t.Fatal("call must not run while the breaker is open")
			return nil, nil
		})
		if !errors.Is(err, gobreaker.ErrOpenState) {
			t.Errorf("Expected ErrOpenState, got %v", err)
		}
	})
}

func TestModelBreakerName(t *testing.T) {
	b := NewModelBreaker(config.OpParseJob, enabledBreakerConfig(), nil)
	if b.Name() != "AI-Model-parseJob" {
		t.Errorf("unexpected name %q", b.Name())
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	b := NewGenerationBreaker(config.OpModify, config.CircuitBreakerConfig{Enabled: false}, nil)
	if b != nil {
		t.Fatal("disabled breaker should be nil")
	}

	calls := 0
	for range 5 {
		_, _ = b.Execute(func() (*genai.GenerateContentResponse, error) {
			calls++
			return nil, errors.New("boom")
		})
	}
	if calls != 5 {
		t.Errorf("Expected every call to run, got %d", calls)
	}
	if !b.IsHealthy() {
		t.Error("nil breaker should report healthy")
	}
	if enabled, _ := b.Stats()["enabled"].(bool); enabled {
		t.Error("nil breaker should report disabled")
	}
}
