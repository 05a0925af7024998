package files

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"cvwizard/internal/errors"
)

// ExtractText returns the readable text of a PDF, DOCX or plain-text file.
func ExtractText(e Encoded) (string, error) {
	data, err := e.Bytes()
	if err != nil {
		return "", err
	}

	var text string
	switch mt := e.MediaType(); {
	case mt == MIMEPDF:
		text, err = extractPDF(data)
	case mt == MIMEDOCX:
		text, err = extractDOCX(data)
	case strings.HasPrefix(mt, "text/"):
		if !utf8.Valid(data) {
			return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("file %s is not valid UTF-8 text", e.Name), nil)
		}
		text = string(data)
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFile,
			fmt.Sprintf("cannot extract text from %s (%s)", e.Name, mt), nil)
	}
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("failed to read %s", e.Name), err)
	}
	return strings.TrimSpace(text), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer func() { _ = doc.Close() }()

	return stripDocxMarkup(doc.Editable().GetContent()), nil
}

// stripDocxMarkup reduces WordprocessingML to its text runs, one line per
// paragraph.
func stripDocxMarkup(raw string) string {
	var b strings.Builder
	inTag := false
	var tag strings.Builder
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			switch name := tag.String(); {
			case name == "/w:p", strings.HasPrefix(name, "w:br"):
				b.WriteByte('\n')
			case name == "w:tab/", name == "w:tab":
				b.WriteByte('\t')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return unescapeXML(b.String())
}

var xmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func unescapeXML(s string) string { return xmlEntities.Replace(s) }
