package normalize

import (
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"cvwizard/internal/types"
)

// Shape schemas only constrain JSON types. They never reject a document; the
// violations they find are reported as coerced fields.
const (
	stringArray = `{"type": "array", "items": {"type": "string"}}`

	cvShape = `{
  "type": "object",
  "properties": {
    "personalInfo": {"type": "object"},
    "experience": {"type": "array", "items": {"type": "object", "properties": {
      "description": ` + stringArray + `, "technologies": ` + stringArray + `}}},
    "education": {"type": "array", "items": {"type": "object", "properties": {
      "achievements": ` + stringArray + `}}},
    "skills": {"type": "array", "items": {"type": "object", "properties": {
      "items": ` + stringArray + `}}},
    "projects": {"type": "array", "items": {"type": "object", "properties": {
      "technologies": ` + stringArray + `, "highlights": ` + stringArray + `}}},
    "certifications": {"type": "array"},
    "languages": {"type": "array"}
  }
}`

	jobShape = `{
  "type": "object",
  "properties": {
    "requirements": ` + stringArray + `,
    "responsibilities": ` + stringArray + `,
    "skills": ` + stringArray + `,
    "benefits": ` + stringArray + `
  }
}`

	reviewShape = `{
  "type": "object",
  "properties": {
    "resumeReview": {"type": "object", "properties": {
      "overallScore": {"type": "number"},
      "categories": {"type": "object"},
      "keywordAnalysis": {"type": "object", "properties": {
        "matchedKeywords": {"type": "array"}, "missingKeywords": {"type": "array"}}},
      "sectionReviews": {"type": "array", "items": {"type": "object"}},
      "topStrengths": ` + stringArray + `,
      "criticalIssues": ` + stringArray + `,
      "quickWins": ` + stringArray + `}},
    "coverLetterReview": {"type": ["object", "null"]},
    "compatibilityScore": {"type": "number"}
  }
}`

	modificationShape = `{
  "type": "object",
  "properties": {
    "success": {"type": "boolean"},
    "type": {"type": "string", "enum": ["resume", "coverLetter", "both", "invalid"]},
    "message": {"type": "string"},
    "changes": ` + stringArray + `,
    "modifiedResume": {"type": ["object", "null"]},
    "modifiedCoverLetter": {"type": ["object", "null"]}
  }
}`
)

var (
	shapesOnce sync.Once
	shapes     map[string]*gojsonschema.Schema
)

func loadShapes() {
	shapes = make(map[string]*gojsonschema.Schema)
	for name, src := range map[string]string{
		"cv":           cvShape,
		"job":          jobShape,
		"review":       reviewShape,
		"modification": modificationShape,
	} {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			panic("normalize: invalid shape schema " + name + ": " + err.Error())
		}
		shapes[name] = schema
	}
}

// shapeViolations lists the field paths in raw that do not have the expected
// JSON type.
func shapeViolations(kind string, raw types.Raw) []string {
	shapesOnce.Do(loadShapes)
	schema, ok := shapes[kind]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(map[string]any(raw)))
	if err != nil || result.Valid() {
		return nil
	}

	seen := make(map[string]bool)
	var fields []string
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		if !seen[field] {
			seen[field] = true
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}
