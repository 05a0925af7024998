package formatters

import (
	"fmt"

	"cvwizard/internal/types"
)

// CoverLetterFormatter prints the letter as it would be sent.
type CoverLetterFormatter struct {
	style style
}

func (f *CoverLetterFormatter) Format(data any) (string, error) {
	letter, ok := data.(types.CoverLetter)
	if !ok {
		return "", fmt.Errorf("expected CoverLetter, got %T", data)
	}

	d := f.style.newDoc()
	if f.style.markdown {
		d.title("Cover Letter")
	}
	d.paragraph(letter.Text())
	return d.String(), nil
}

func (f *CoverLetterFormatter) SupportedType() string { return typeCoverLetter }

// ModificationFormatter summarizes a modification and prints the modified
// documents.
type ModificationFormatter struct {
	style style
}

func (f *ModificationFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ModificationResult)
	if !ok {
		return "", fmt.Errorf("expected ModificationResult, got %T", data)
	}

	d := f.style.newDoc()
	d.title("Modification")
	status := "applied"
	if !result.Success {
		status = "not applied"
	}
	d.field("Status", status)
	d.field("Type", string(result.Type))
	d.blank()
	d.paragraph(result.Message)
	d.titled("Changes", result.Changes)

	if result.ModifiedCoverLetter != nil {
		d.section("Modified Cover Letter")
		d.paragraph(result.ModifiedCoverLetter.Text())
	}
	if result.ModifiedResume == nil {
		return d.String(), nil
	}

	cv, err := (&CVFormatter{style: f.style}).Format(*result.ModifiedResume)
	if err != nil {
		return "", err
	}
	return d.String() + "\n" + cv, nil
}

func (f *ModificationFormatter) SupportedType() string { return typeModification }
