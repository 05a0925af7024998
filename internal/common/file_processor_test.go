package common

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvwizard/internal/errors"
	"cvwizard/internal/files"
	"cvwizard/internal/types"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadJSON(t *testing.T) {
	fp := NewFileProcessor(nil, 0)

	t.Run("valid", func(t *testing.T) {
		path := writeTemp(t, "cv.json", `{"personalInfo": {"fullName": "Jane Smith"}}`)
		var cv types.CVData
		require.NoError(t, fp.ReadJSON(path, &cv))
		assert.Equal(t, "Jane Smith", cv.PersonalInfo.FullName)
	})

	t.Run("invalid", func(t *testing.T) {
		path := writeTemp(t, "cv.json", `{"personalInfo": `)
		var cv types.CVData
		err := fp.ReadJSON(path, &cv)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("missing", func(t *testing.T) {
		var cv types.CVData
		err := fp.ReadJSON(filepath.Join(t.TempDir(), "nope.json"), &cv)
		appErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)
	})
}

func TestReadOptionalJSON(t *testing.T) {
	fp := NewFileProcessor(nil, 0)

	var v map[string]int
	found, err := fp.ReadOptionalJSON("", &v)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = fp.ReadOptionalJSON(filepath.Join(t.TempDir(), "session.json"), &v)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)

	found, err = fp.ReadOptionalJSON(writeTemp(t, "session.json", `{"reviewCount": 2}`), &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, v["reviewCount"])
}

func TestReadFileFromStdin(t *testing.T) {
	fp := NewFileProcessor(nil, 0)
	fp.stdin = strings.NewReader("Senior Go Engineer")

	text, err := fp.ReadFile(StdinPath)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", text)
}

func TestReadUploads(t *testing.T) {
	pdf := writeTemp(t, "cv.pdf", "%PDF-1.4 test")

	t.Run("encodes in order", func(t *testing.T) {
		notes := writeTemp(t, "notes.txt", "Shipped the billing service")
		uploads, err := NewFileProcessor(nil, 0).ReadUploads(pdf, notes)
		require.NoError(t, err)
		require.Len(t, uploads, 2)
		assert.Equal(t, "cv.pdf", uploads[0].Name)
		assert.Equal(t, files.KindDocument, files.Classify(uploads[0]))
		assert.Equal(t, "notes.txt", uploads[1].Name)
	})

	t.Run("size limit", func(t *testing.T) {
		_, err := NewFileProcessor(nil, 4).ReadUploads(pdf)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "cv.md")
	require.NoError(t, NewFileProcessor(nil, 0).WriteFile(path, "# Jane Smith\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Jane Smith\n", string(data))
}

func TestRunWizardCommand(t *testing.T) {
	cvPath := writeTemp(t, "cv.json", `{"personalInfo": {"fullName": "Jane Smith", "title": "SRE"}}`)
	out := filepath.Join(t.TempDir(), "cv.md")

	load := func(fp *FileProcessor) (types.CVData, error) {
		var cv types.CVData
		return cv, fp.ReadJSON(cvPath, &cv)
	}
	upper := func(_ context.Context, cv types.CVData) (types.CVData, error) {
		cv.PersonalInfo.Title = strings.ToUpper(cv.PersonalInfo.Title)
		return cv, nil
	}

	cfg := CommandConfig{OutputFile: out, OutputFormat: "markdown"}
	require.NoError(t, RunWizardCommand(context.Background(), errors.Discard(), cfg, load, upper, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Jane Smith")
	assert.Contains(t, string(data), "**Title:** SRE")
}

func TestHandleOutputToStdout(t *testing.T) {
	var buf bytes.Buffer
	oh := NewOutputHandler(nil)
	oh.stdout = &buf

	require.NoError(t, oh.HandleOutput(types.CoverLetter{Salutation: "Hello,", Content: "Short."}, CommandConfig{OutputFormat: "text"}))
	assert.Equal(t, "Hello,\n\nShort.\n\n", buf.String())

	err := oh.HandleOutput(types.CoverLetter{}, CommandConfig{OutputFormat: "yaml"})
	assert.True(t, errors.IsValidationError(err))
}
