package errors

import (
	stderrors "errors"
	"fmt"
	"slices"
)

// ErrorType is the broad category of an AppError. Callers branch on it to
// pick an exit code or HTTP status.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeAI         ErrorType = "ai"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError is the single error shape surfaced by every wizard operation.
// Provider specific detail stays in Cause and is only ever logged.
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{Type: typ, Code: code, Message: message, Cause: cause}
}

func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewAIError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeAI, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// NewGenerationError wraps any transport, quota or provider failure.
func NewGenerationError(cause error) *AppError {
	return NewAIError(ErrCodeGenerationFailed, "failed to generate content, please retry", cause)
}

// NewExtractionError reports a model reply without a usable JSON object.
func NewExtractionError(cause error) *AppError {
	return NewAIError(ErrCodeResponseParseFailed, "failed to process AI response", cause)
}

// NewMissingAPIKeyError is raised before any network call is attempted.
func NewMissingAPIKeyError(operation string) *AppError {
	return NewConfigError(ErrCodeMissingAPIKey, "Gemini API key is required", nil).
		WithContext("operation", operation)
}

// WithContext attaches a field that LogError emits next to the error.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = map[string]any{key: value}
		return e
	}
	e.Context[key] = value
	return e
}

// As reports whether err wraps an *AppError and returns it.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasType(err error, typ ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == typ
}

func hasCode(err error, codes ...string) bool {
	appErr, ok := As(err)
	return ok && slices.Contains(codes, appErr.Code)
}

func IsConfigError(err error) bool { return hasType(err, ErrorTypeConfig) }

func IsValidationError(err error) bool { return hasType(err, ErrorTypeValidation) }

func IsGenerationError(err error) bool {
	return hasCode(err, ErrCodeGenerationFailed, ErrCodeAITimeout, ErrCodeAIServiceFailed)
}

func IsExtractionError(err error) bool { return hasCode(err, ErrCodeResponseParseFailed) }

// Common error codes
const (
	ErrCodeFileNotFound        = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable     = "FILE_NOT_READABLE"
	ErrCodeFileNotWritable     = "FILE_NOT_WRITABLE"
	ErrCodeInvalidOutputPath   = "INVALID_OUTPUT_PATH"
	ErrCodeInvalidFormat       = "INVALID_FORMAT"
	ErrCodeUnsupportedFile     = "UNSUPPORTED_FILE"
	ErrCodeAIServiceFailed     = "AI_SERVICE_FAILED"
	ErrCodeGenerationFailed    = "AI_GENERATION_FAILED"
	ErrCodeResponseParseFailed = "AI_RESPONSE_PARSE_FAILED"
	ErrCodeAITimeout           = "AI_TIMEOUT"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeIncompleteIdentity  = "INCOMPLETE_IDENTITY"
	ErrCodeMissingAPIKey       = "MISSING_API_KEY"
	ErrCodeNetworkTimeout      = "NETWORK_TIMEOUT"
	ErrCodeServiceUnreachable  = "SERVICE_UNREACHABLE"
	ErrCodeInvalidConfig       = "INVALID_CONFIG"
)
