package normalize

import "slices"

// Report records what normalization had to do to produce a complete record.
// Defaulted fields were filled with a placeholder value; Missing fields were
// absent and left empty; Coerced fields had the wrong JSON shape.
type Report struct {
	Defaulted []string `json:"defaulted,omitempty"`
	Missing   []string `json:"missing,omitempty"`
	Coerced   []string `json:"coerced,omitempty"`
}

func (r *Report) defaulted(field string) { r.Defaulted = append(r.Defaulted, field) }
func (r *Report) missing(field string)   { r.Missing = append(r.Missing, field) }

// HasPlaceholders reports whether any identity field carries a fabricated value.
func (r Report) HasPlaceholders() bool { return len(r.Defaulted) > 0 }

// IsMissing reports whether field was absent from the model output.
func (r Report) IsMissing(field string) bool {
	return slices.Contains(r.Missing, field) || slices.Contains(r.Defaulted, field)
}

// Clean reports whether normalization changed nothing of note.
func (r Report) Clean() bool {
	return len(r.Defaulted) == 0 && len(r.Missing) == 0 && len(r.Coerced) == 0
}
