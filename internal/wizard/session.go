package wizard

import (
	"encoding/json"

	"cvwizard/internal/ai"
	"cvwizard/internal/errors"
	"cvwizard/internal/types"
)

// ReviewSession carries the conversation of a review across re-analyses.
// It is a value: the Reviewer never modifies the session it is given and
// returns a fresh successor instead.
type ReviewSession struct {
	History          []ai.Turn             `json:"history"`
	ReviewCount      int                   `json:"reviewCount"`
	LastReviewResult *types.AIReviewResult `json:"lastReviewResult,omitempty"`
}

// next returns the successor session after one more (user, model) exchange.
func (s ReviewSession) next(prompt, reply string, result types.AIReviewResult) ReviewSession {
	history := make([]ai.Turn, 0, len(s.History)+2)
	history = append(history, s.History...)
	history = append(history,
		ai.Turn{Role: ai.RoleUser, Text: prompt},
		ai.Turn{Role: ai.RoleModel, Text: reply},
	)
	return ReviewSession{
		History:          history,
		ReviewCount:      s.ReviewCount + 1,
		LastReviewResult: &result,
	}
}

// IsEmpty reports whether no review has happened yet.
func (s ReviewSession) IsEmpty() bool { return s.ReviewCount == 0 }

// MarshalSession encodes a session for clients that thread it between
// stateless calls.
func MarshalSession(s ReviewSession) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSession decodes a session. Empty input yields a fresh session.
func UnmarshalSession(data []byte) (ReviewSession, error) {
	var s ReviewSession
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return ReviewSession{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"review session is not valid JSON", err)
	}
	if s.ReviewCount < 0 {
		return ReviewSession{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"review session has a negative review count", nil)
	}
	return s, nil
}
