// Package utils holds path helpers shared by the CLI and the upload reader.
package utils

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// Postings and notes read verbatim as prompt text.
	textExtensions = []string{".txt", ".text", ".md", ".markdown"}
	// Saved CVs, jobs, letters and review sessions.
	jsonExtensions = []string{".json"}
)

// ValidateInputFile reports why a path cannot be read as an upload or
// document.
func ValidateInputFile(path string) error {
	if path == "" {
		return fmt.Errorf("no file given")
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%s does not exist", path)
	case err != nil:
		return fmt.Errorf("cannot access %s: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("%s is a directory", path)
	}

	f, err := os.Open(path) // #nosec G304 -- path is supplied by the user on purpose
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	return f.Close()
}

// ValidateOutputFile makes sure the directory for an output file exists. An
// empty path means standard output.
func ValidateOutputFile(path string) error {
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	return nil
}

// GetFileExtension returns the extension of path in lowercase, dot included.
func GetFileExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsTextFile reports whether path holds plain prose rather than a document
// that needs conversion.
func IsTextFile(path string) bool {
	return slices.Contains(textExtensions, GetFileExtension(path))
}

// IsJSONFile reports whether path holds a saved record.
func IsJSONFile(path string) bool {
	return slices.Contains(jsonExtensions, GetFileExtension(path))
}

// DecodedSize is the byte size of a standard base64 payload.
func DecodedSize(encoded string) int64 {
	return int64(base64.StdEncoding.DecodedLen(len(encoded)))
}

// FormatFileSize renders size in binary units, e.g. "1.5 MB".
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
