// Package formatters renders wizard results as JSON, plain text or Markdown.
package formatters

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"

	"cvwizard/internal/types"
)

// Output formats known to the registry.
const (
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Data type keys. typeAny matches every value.
const (
	typeAny          = "any"
	typeCV           = "CVData"
	typeCoverLetter  = "CoverLetter"
	typeReview       = "AIReviewResult"
	typeModification = "ModificationResult"
	typeJob          = "JobDescription"
)

// Formatter renders one kind of result.
type Formatter interface {
	Format(data any) (string, error)
	// SupportedType is the data type key the formatter is registered under.
	SupportedType() string
}

// FormatterRegistry picks a formatter by output format and result type.
type FormatterRegistry struct {
	byFormat map[string]map[string]Formatter
}

// NewFormatterRegistry knows JSON for every value and the text and Markdown
// renderings of each wizard result.
func NewFormatterRegistry() *FormatterRegistry {
	r := &FormatterRegistry{byFormat: make(map[string]map[string]Formatter)}

	r.RegisterFormatter(FormatJSON, JSONFormatter{})
	for format, s := range map[string]style{FormatText: plain, FormatMarkdown: markdown} {
		for _, f := range []Formatter{
			&CVFormatter{style: s},
			&CoverLetterFormatter{style: s},
			&ReviewFormatter{style: s},
			&ModificationFormatter{style: s},
			&JobFormatter{style: s},
		} {
			r.RegisterFormatter(format, f)
		}
	}
	return r
}

// RegisterFormatter adds or replaces the formatter for format and
// f.SupportedType().
func (r *FormatterRegistry) RegisterFormatter(format string, f Formatter) {
	if r.byFormat[format] == nil {
		r.byFormat[format] = make(map[string]Formatter)
	}
	r.byFormat[format][f.SupportedType()] = f
}

// Format renders data, falling back to the format's generic formatter when
// none is registered for the data's type. Pointers to results are rendered
// like the results themselves.
func (r *FormatterRegistry) Format(data any, format string) (string, error) {
	if v := reflect.ValueOf(data); v.Kind() == reflect.Pointer && !v.IsNil() {
		data = v.Elem().Interface()
	}

	byType, ok := r.byFormat[format]
	if !ok {
		return "", fmt.Errorf("unknown output format %q", format)
	}
	key := dataType(data)
	f, ok := byType[key]
	if !ok {
		f, ok = byType[typeAny]
	}
	if !ok {
		return "", fmt.Errorf("format %q cannot render %s", format, key)
	}
	return f.Format(data)
}

// GetSupportedFormats returns the registered formats, sorted.
func (r *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(r.byFormat))
	for format := range r.byFormat {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func dataType(data any) string {
	switch data.(type) {
	case types.CVData:
		return typeCV
	case types.CoverLetter:
		return typeCoverLetter
	case types.AIReviewResult:
		return typeReview
	case types.ModificationResult:
		return typeModification
	case types.JobDescription:
		return typeJob
	default:
		return fmt.Sprintf("%T", data)
	}
}

// JSONFormatter indents any value as JSON.
type JSONFormatter struct{}

func (JSONFormatter) Format(data any) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (JSONFormatter) SupportedType() string { return typeAny }

// GlobalRegistry is shared by the CLI commands.
var GlobalRegistry = NewFormatterRegistry()
