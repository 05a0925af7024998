package cli

import (
	"strings"

	"cvwizard/internal/common"
	"cvwizard/internal/errors"
	"cvwizard/internal/normalize"
	"cvwizard/internal/types"
	"cvwizard/internal/utils"
)

// loadCV reads a CV saved as JSON, such as the output of extract.
func loadCV(fp *common.FileProcessor, path string) (types.CVData, error) {
	if path == "" {
		return types.CVData{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "--cv is required", nil)
	}
	var cv types.CVData
	if err := fp.ReadJSON(path, &cv); err != nil {
		return types.CVData{}, err
	}
	return cv, nil
}

// loadJob reads a structured job (.json, as written by parse-job) or takes
// any other file as the raw posting text.
func loadJob(fp *common.FileProcessor, path string) (types.JobDescription, error) {
	if path == "" {
		return types.JobDescription{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "--job is required", nil)
	}
	if utils.IsJSONFile(path) {
		var job types.JobDescription
		if err := fp.ReadJSON(path, &job); err != nil {
			return types.JobDescription{}, err
		}
		return normalize.JobRecord(job), nil
	}
	text, err := fp.ReadFile(path)
	if err != nil {
		return types.JobDescription{}, err
	}
	return normalize.RawJob(text), nil
}

// loadCoverLetter reads a letter saved as JSON or as plain text. An empty
// path yields nil.
func loadCoverLetter(fp *common.FileProcessor, path string) (*types.CoverLetter, error) {
	if path == "" {
		return nil, nil
	}
	if utils.IsJSONFile(path) {
		var letter types.CoverLetter
		if err := fp.ReadJSON(path, &letter); err != nil {
			return nil, err
		}
		return &letter, nil
	}
	text, err := fp.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &types.CoverLetter{Content: strings.TrimSpace(text)}, nil
}
