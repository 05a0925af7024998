package types

// ModificationType discriminates what a modification touched
type ModificationType string

const (
	ModificationResume      ModificationType = "resume"
	ModificationCoverLetter ModificationType = "coverLetter"
	ModificationBoth        ModificationType = "both"
	ModificationInvalid     ModificationType = "invalid"
)

// Valid reports whether t is one of the known types.
func (t ModificationType) Valid() bool {
	switch t {
	case ModificationResume, ModificationCoverLetter, ModificationBoth, ModificationInvalid:
		return true
	}
	return false
}

// ModificationResult is the outcome of a free-text edit request. An invalid
// request is a normal result with Success false and no modified documents.
type ModificationResult struct {
	Success             bool             `json:"success"`
	Type                ModificationType `json:"type"`
	Message             string           `json:"message"`
	Changes             []string         `json:"changes"`
	ModifiedResume      *CVData          `json:"modifiedResume,omitempty"`
	ModifiedCoverLetter *CoverLetter     `json:"modifiedCoverLetter,omitempty"`
}
