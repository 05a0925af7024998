package common

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"cvwizard/internal/errors"
	"cvwizard/internal/files"
	"cvwizard/internal/utils"
)

// StdinPath names standard input wherever a command takes a file.
const StdinPath = "-"

// FileProcessor reads command inputs and writes results. Reads and writes
// fail with IO or validation AppErrors.
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
	stdin       io.Reader
}

// NewFileProcessor rejects uploads larger than maxFileSize; zero means no limit.
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.Discard()
	}
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize, stdin: os.Stdin}
}

// ReadFile returns the whole file, or standard input for StdinPath.
func (fp *FileProcessor) ReadFile(name string) (string, error) {
	if name == StdinPath {
		data, err := io.ReadAll(fp.stdin)
		if err != nil {
			return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "cannot read standard input", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(name) // #nosec G304 -- user-chosen input path
	switch {
	case err == nil:
		return string(data), nil
	case stderrors.Is(err, fs.ErrNotExist):
		return "", errors.NewIOError(errors.ErrCodeFileNotFound, fmt.Sprintf("%s does not exist", name), err).
			WithContext("file", name)
	default:
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, fmt.Sprintf("cannot read %s", name), err).
			WithContext("file", name)
	}
}

// ReadJSON decodes a saved document such as a CV or a job description.
func (fp *FileProcessor) ReadJSON(name string, v any) error {
	text, err := fp.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, fmt.Sprintf("%s is not valid JSON", name), err).
			WithContext("file", name)
	}
	return nil
}

// ReadOptionalJSON reads name when it is set and exists, reporting whether
// it did. v is left untouched otherwise.
func (fp *FileProcessor) ReadOptionalJSON(name string, v any) (bool, error) {
	if name == "" {
		return false, nil
	}
	if _, err := os.Stat(name); stderrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return true, fp.ReadJSON(name, v)
}

// ReadUploads encodes files for the model. Unsupported kinds only warn here;
// the extractor rejects them with a proper error.
func (fp *FileProcessor) ReadUploads(paths ...string) ([]files.Encoded, error) {
	uploads, err := files.ReadFiles(paths, fp.maxFileSize)
	if err != nil {
		return nil, err
	}
	for i, up := range uploads {
		log := fp.logger.With("file", paths[i])
		kind := files.Classify(up)
		if kind == files.KindUnsupported {
			log.Warn("Unsupported upload", "extension", utils.GetFileExtension(paths[i]))
			continue
		}
		log.Debug("Upload encoded",
			"kind", kind.String(),
			"media_type", up.MediaType(),
			"size", utils.FormatFileSize(utils.DecodedSize(up.Data)))
	}
	return uploads, nil
}

// WriteFile writes content, creating parent directories.
func (fp *FileProcessor) WriteFile(name, content string) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError(errors.ErrCodeFileNotWritable, fmt.Sprintf("cannot create %s", dir), err)
		}
	}
	if err := os.WriteFile(name, []byte(content), 0600); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotWritable, fmt.Sprintf("cannot write %s", name), err)
	}
	return nil
}

// ValidateOutputFile accepts "" (stdout) or a path whose directory can be
// created.
func (fp *FileProcessor) ValidateOutputFile(name string) error {
	if name == "" {
		return nil
	}
	if err := utils.ValidateOutputFile(name); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidOutputPath, fmt.Sprintf("cannot write output to %s", name), err)
	}
	return nil
}
