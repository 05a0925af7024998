package ai

import (
	"cvwizard/internal/config"
	"cvwizard/internal/errors"

	"google.golang.org/genai"
)

// Breakers holds one generation breaker and one model breaker per operation.
type Breakers struct {
	generation map[config.Operation]*Breaker[*genai.GenerateContentResponse]
	model      map[config.Operation]*Breaker[*genai.Model]
}

// NewBreakers builds breakers from each operation's configuration. Disabled
// breakers are stored as nil and pass calls through.
func NewBreakers(cfg *config.Config, logger *errors.Logger) *Breakers {
	b := &Breakers{
		generation: make(map[config.Operation]*Breaker[*genai.GenerateContentResponse]),
		model:      make(map[config.Operation]*Breaker[*genai.Model]),
	}
	for _, op := range config.Operations() {
		cb := cfg.Operation(op).CircuitBreaker
		b.generation[op] = NewGenerationBreaker(op, cb, logger)
		b.model[op] = NewModelBreaker(op, cb, logger)
	}
	return b
}

// Stats reports every breaker plus an overall health flag.
func (b *Breakers) Stats() map[string]any {
	stats := make(map[string]any, len(b.generation)+1)
	healthy := true
	for _, op := range config.Operations() {
		gen, model := b.generation[op], b.model[op]
		stats[op.String()] = map[string]any{
			"ai_operations":    gen.Stats(),
			"model_operations": model.Stats(),
		}
		healthy = healthy && gen.IsHealthy() && model.IsHealthy()
	}
	stats["overall_healthy"] = healthy
	return stats
}

// Healthy is false while any generation breaker is not closed.
func (b *Breakers) Healthy() bool {
	for _, br := range b.generation {
		if !br.IsHealthy() {
			return false
		}
	}
	return true
}
