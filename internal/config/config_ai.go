package config

import (
	"os"
	"time"
)

// AIConfig holds the global model settings and one override block per
// operation. Empty override fields inherit the global value.
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`

	Extract      OperationAIConfig `mapstructure:"extract"`
	Enhance      OperationAIConfig `mapstructure:"enhance"`
	QuickEnhance OperationAIConfig `mapstructure:"quickEnhance"`
	CoverLetter  OperationAIConfig `mapstructure:"coverLetter"`
	Review       OperationAIConfig `mapstructure:"review"`
	Modify       OperationAIConfig `mapstructure:"modify"`
	ParseJob     OperationAIConfig `mapstructure:"parseJob"`
}

// OperationAIConfig configures one operation. Pointer fields tell "unset"
// apart from an explicit zero so the global value can apply.
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	Grounding        *bool                `mapstructure:"grounding"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	SystemPrompt     string               `mapstructure:"systemPrompt"`
	SystemPromptFile string               `mapstructure:"systemPromptFile"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig trips an operation's breaker once FailureThreshold of
// at least MinRequests calls in Interval have failed. After Timeout the
// breaker lets MaxRequests probe calls through.
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"minRequests"`
	FailureThreshold float64       `mapstructure:"failureThreshold"`
}

// operation returns the raw, un-defaulted configuration for op.
func (a *AIConfig) operation(op Operation) OperationAIConfig {
	switch op {
	case OpExtract:
		return a.Extract
	case OpEnhance:
		return a.Enhance
	case OpQuickEnhance:
		return a.QuickEnhance
	case OpCoverLetter:
		return a.CoverLetter
	case OpReview:
		return a.Review
	case OpModify:
		return a.Modify
	case OpParseJob:
		return a.ParseJob
	}
	return OperationAIConfig{}
}

// setOperation replaces the stored configuration for op.
func (a *AIConfig) setOperation(op Operation, cfg OperationAIConfig) {
	switch op {
	case OpExtract:
		a.Extract = cfg
	case OpEnhance:
		a.Enhance = cfg
	case OpQuickEnhance:
		a.QuickEnhance = cfg
	case OpCoverLetter:
		a.CoverLetter = cfg
	case OpReview:
		a.Review = cfg
	case OpModify:
		a.Modify = cfg
	case OpParseJob:
		a.ParseJob = cfg
	}
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil || *opCfg.Timeout <= 0 {
		t := c.AI.Timeout
		opCfg.Timeout = &t
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if opCfg.MaxRetries == nil {
		r := c.AI.MaxRetries
		opCfg.MaxRetries = &r
	}
	if opCfg.Temperature == nil {
		t := c.AI.Temperature
		opCfg.Temperature = &t
	}
	if opCfg.Grounding == nil {
		g := false
		opCfg.Grounding = &g
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		u := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &u
	}
}

// Operation returns the AI configuration for op with fallback to the global
// configuration. Every pointer field of the result is non-nil.
func (c *Config) Operation(op Operation) OperationAIConfig {
	cfg := c.AI.operation(op)
	if cfg.Grounding == nil {
		g := defaultsByOperation[op].grounding
		cfg.Grounding = &g
	}
	c.applyOperationDefaults(&cfg)
	if loaded, ok := Prompts().System(op); ok {
		cfg.SystemPrompt = loaded
	}
	return cfg
}

// APIKey returns the Gemini key shared by all operations, or "" when none is
// configured.
func (c *Config) APIKey() string {
	for _, op := range Operations() {
		if k := c.Operation(op).APIKey; k != "" {
			return k
		}
	}
	return ""
}

// GroundingEnabled reports whether op runs with search and URL grounding.
func (o OperationAIConfig) GroundingEnabled() bool {
	return o.Grounding != nil && *o.Grounding
}

// SystemPromptsEnabled reports whether op sends a system instruction.
func (o OperationAIConfig) SystemPromptsEnabled() bool {
	return o.UseSystemPrompts == nil || *o.UseSystemPrompts
}
