package config

// Operation names one model-backed wizard capability. Each operation has its
// own model, timeout, temperature, grounding and circuit breaker settings.
type Operation string

const (
	OpExtract      Operation = "extract"
	OpEnhance      Operation = "enhance"
	OpQuickEnhance Operation = "quickEnhance"
	OpCoverLetter  Operation = "coverLetter"
	OpReview       Operation = "review"
	OpModify       Operation = "modify"
	OpParseJob     Operation = "parseJob"
)

// Operations lists every operation in a stable order.
func Operations() []Operation {
	return []Operation{OpExtract, OpEnhance, OpQuickEnhance, OpCoverLetter, OpReview, OpModify, OpParseJob}
}

func (o Operation) String() string { return string(o) }

// operationDefaults are the per-operation values registered with viper.
type operationDefaults struct {
	model       string
	timeoutSecs int
	maxRetries  int
	temperature float64
	grounding   bool
}

// Extraction and modification are grounded so the model can verify real
// entities such as company names; the reformatting operations are not.
var defaultsByOperation = map[Operation]operationDefaults{
	OpExtract:      {model: "gemini-2.5-pro", timeoutSecs: 180, maxRetries: 2, temperature: 0.1, grounding: true},
	OpEnhance:      {model: "", timeoutSecs: 120, maxRetries: 2, temperature: 0.7},
	OpQuickEnhance: {model: "", timeoutSecs: 90, maxRetries: 2, temperature: 0.5},
	OpCoverLetter:  {model: "", timeoutSecs: 90, maxRetries: 2, temperature: 0.7},
	OpReview:       {model: "", timeoutSecs: 120, maxRetries: 2, temperature: 0.2},
	OpModify:       {model: "", timeoutSecs: 120, maxRetries: 2, temperature: 0.3, grounding: true},
	OpParseJob:     {model: "", timeoutSecs: 60, maxRetries: 1, temperature: 0.1},
}
