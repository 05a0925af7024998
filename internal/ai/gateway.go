// Package ai is the boundary to the hosted generation service. Orchestrators
// depend on the Gateway interface; GeminiGateway is the production
// implementation.
package ai

import (
	"context"

	"cvwizard/internal/config"
	"cvwizard/internal/files"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message of a multi-turn conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request is a single-shot generation call: text parts followed by inline
// files.
type Request struct {
	Parts []string
	Files []files.Encoded
}

// Response is the raw model text. It is never handed to callers outside the
// orchestrators without normalization.
type Response struct {
	Text  string
	Usage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// Gateway generates content for a named operation. The operation selects
// model, temperature, grounding, timeout and retry budget from configuration.
type Gateway interface {
	Generate(ctx context.Context, op config.Operation, req Request) (Response, error)
	ContinueChat(ctx context.Context, op config.Operation, history []Turn, prompt string) (Response, error)
}

// CallObserver receives one notification per finished gateway call.
type CallObserver interface {
	ObserveCall(ctx context.Context, op config.Operation, model string, seconds float64, usage *TokenUsage, err error)
}
