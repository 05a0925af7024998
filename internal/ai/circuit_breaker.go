package ai

import (
	"fmt"

	"cvwizard/internal/config"
	"cvwizard/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// Breaker wraps calls of one result type with a gobreaker circuit breaker.
// A nil Breaker runs calls directly.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// NewGenerationBreaker guards content generation for one operation.
func NewGenerationBreaker(op config.Operation, cfg config.CircuitBreakerConfig, logger *errors.Logger) *Breaker[*genai.GenerateContentResponse] {
	if !cfg.Enabled {
		return nil
	}
	trip := func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
	}
	return newBreaker[*genai.GenerateContentResponse](fmt.Sprintf("AI-%s", op), op, cfg, trip, logger)
}

// NewModelBreaker guards model lookups. Health checks are less critical,
// so it trips later than the generation breaker.
func NewModelBreaker(op config.Operation, cfg config.CircuitBreakerConfig, logger *errors.Logger) *Breaker[*genai.Model] {
	if !cfg.Enabled {
		return nil
	}
	trip := func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 5 && failureRatio >= 0.8
	}
	return newBreaker[*genai.Model](fmt.Sprintf("AI-Model-%s", op), op, cfg, trip, logger)
}

func newBreaker[T any](name string, op config.Operation, cfg config.CircuitBreakerConfig, trip func(gobreaker.Counts) bool, logger *errors.Logger) *Breaker[T] {
	if logger == nil {
		logger = errors.Discard()
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation", op.String(),
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn under the breaker.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats reports the breaker state for the /stats endpoint.
func (b *Breaker[T]) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// Name is empty for a disabled breaker.
func (b *Breaker[T]) Name() string {
	if b == nil || b.cb == nil {
		return ""
	}
	return b.cb.Name()
}

// IsHealthy is true unless the breaker is open or half-open.
func (b *Breaker[T]) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
