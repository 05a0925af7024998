// Package files turns uploaded documents into the inline parts the model
// accepts, and extracts plain text from PDF and DOCX files for the local
// code paths that need it.
package files

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cvwizard/internal/errors"
	"cvwizard/internal/utils"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEJSON = "application/json"
	MIMEText = "text/plain"
)

var mimeByExtension = map[string]string{
	".pdf":      MIMEPDF,
	".docx":     MIMEDOCX,
	".json":     MIMEJSON,
	".txt":      MIMEText,
	".text":     MIMEText,
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".png":      "image/png",
	".jpg":      "image/jpeg",
	".jpeg":     "image/jpeg",
	".webp":     "image/webp",
}

// Encoded is a file held in memory as base64, the form the model gateway and
// the HTTP API exchange.
type Encoded struct {
	Name     string `json:"name" validate:"required"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data" validate:"required,base64"`
}

// Encode wraps raw bytes. The media type is taken from the file extension and
// sniffed from the content when the extension is unknown.
func Encode(name string, data []byte) Encoded {
	return Encoded{
		Name:     name,
		MIMEType: DetectMIME(name, data),
		Data:     base64.StdEncoding.EncodeToString(data),
	}
}

// Bytes decodes the payload.
func (e Encoded) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(e.Data)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("file %s is not valid base64", e.Name), err)
	}
	return data, nil
}

// MediaType returns the declared type, or one derived from the name when the
// sender left it empty.
func (e Encoded) MediaType() string {
	if mt := strings.TrimSpace(strings.Split(e.MIMEType, ";")[0]); mt != "" {
		return strings.ToLower(mt)
	}
	return DetectMIME(e.Name, nil)
}

// DetectMIME resolves a media type from the extension first and the content
// second. Content sniffing recognises DOCX and JSON uploads that arrive
// without a file name.
func DetectMIME(name string, data []byte) string {
	if mt, ok := mimeByExtension[utils.GetFileExtension(name)]; ok {
		return mt
	}
	if len(data) == 0 {
		return "application/octet-stream"
	}
	mt, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return mt
}

// ReadFile loads and encodes a file from disk. maxSize <= 0 disables the size
// check.
func ReadFile(path string, maxSize int64) (Encoded, error) {
	if err := utils.ValidateInputFile(path); err != nil {
		return Encoded{}, errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("cannot use file %s", path), err)
	}

	if maxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return Encoded{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("cannot stat file %s", path), err)
		}
		if info.Size() > maxSize {
			return Encoded{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("file %s is %s, larger than the %s limit", path,
					utils.FormatFileSize(info.Size()), utils.FormatFileSize(maxSize)), nil)
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the user on purpose
	if err != nil {
		return Encoded{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read file %s", path), err)
	}
	return Encode(filepath.Base(path), data), nil
}

// ReadFiles loads every path in order and stops at the first failure.
func ReadFiles(paths []string, maxSize int64) ([]Encoded, error) {
	out := make([]Encoded, 0, len(paths))
	for _, p := range paths {
		enc, err := ReadFile(p, maxSize)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
	return out, nil
}
