package wizard

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"cvwizard/internal/ai"
	"cvwizard/internal/config"
	"cvwizard/internal/errors"
	"cvwizard/internal/extract"
	"cvwizard/internal/files"
	"cvwizard/internal/linkedin"
	"cvwizard/internal/normalize"
	"cvwizard/internal/prompts"
	"cvwizard/internal/types"
)

// Extractor turns uploaded documents into a partial CV.
type Extractor struct {
	*base
}

func NewExtractor(apiKey string, connect Connector, opts ...Option) *Extractor {
	return &Extractor{base: newBase(apiKey, connect, opts)}
}

// ExtractFromFiles sends every document to the model in one call; merging
// several documents is left to the model.
func (e *Extractor) ExtractFromFiles(ctx context.Context, docs []files.Encoded) (types.CVData, normalize.Report, error) {
	if len(docs) == 0 {
		return types.CVData{}, normalize.Report{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"at least one file is required for extraction", nil)
	}

	resp, err := e.generate(ctx, config.OpExtract, ai.Request{
		Parts: []string{prompts.Extraction(len(docs))},
		Files: docs,
	})
	if err != nil {
		e.record(ctx, EventCVExtracted, false)
		return types.CVData{}, normalize.Report{}, err
	}

	raw, err := extract.JSON(resp.Text)
	if err != nil {
		e.record(ctx, EventCVExtracted, false)
		return types.CVData{}, normalize.Report{}, err
	}

	cv, report := normalize.CV(raw, normalize.Extraction)
	if len(report.Coerced) > 0 {
		e.logger.Warn("Extraction response had unexpected shapes", "fields", report.Coerced)
	}
	e.record(ctx, EventCVExtracted, true, attribute.Int("files", len(docs)))
	return cv, report, nil
}

// ExtractUploads routes a mixed batch: profile exports are imported locally,
// documents go through the model, and the two results are merged with the
// extracted values winning on conflicting scalars. A batch of exports only
// needs no credential.
func (e *Extractor) ExtractUploads(ctx context.Context, uploads []files.Encoded) (types.CVData, normalize.Report, error) {
	exports, docs, unsupported := files.Split(uploads)
	if len(unsupported) > 0 {
		names := make([]string, len(unsupported))
		for i, u := range unsupported {
			names[i] = u.Name
		}
		return types.CVData{}, normalize.Report{}, errors.NewValidationError(errors.ErrCodeUnsupportedFile,
			fmt.Sprintf("unsupported file format: %s. Please upload JSON, PDF, or DOCX files", strings.Join(names, ", ")), nil)
	}
	if len(exports)+len(docs) == 0 {
		return types.CVData{}, normalize.Report{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"at least one file is required", nil)
	}

	var imported *types.CVData
	for _, exp := range exports {
		data, err := exp.Bytes()
		if err != nil {
			return types.CVData{}, normalize.Report{}, err
		}
		cv, err := linkedin.Parse(data)
		if err != nil {
			return types.CVData{}, normalize.Report{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("cannot import %s", exp.Name), err)
		}
		if imported == nil {
			imported = &cv
		} else {
			merged := linkedin.Merge(*imported, cv)
			imported = &merged
		}
	}

	if len(docs) == 0 {
		e.record(ctx, EventProfileExportsMerged, true, attribute.Int("exports", len(exports)))
		return *imported, normalize.Report{}, nil
	}

	extracted, report, err := e.ExtractFromFiles(ctx, docs)
	if err != nil {
		return types.CVData{}, normalize.Report{}, err
	}
	if imported == nil {
		return extracted, report, nil
	}

	e.record(ctx, EventProfileExportsMerged, true, attribute.Int("exports", len(exports)))
	return linkedin.Merge(*imported, extracted), report, nil
}
