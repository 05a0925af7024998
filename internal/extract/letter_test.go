package extract

import (
	"testing"

	"cvwizard/internal/types"
)

func TestCoverLetterText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.CoverLetter
	}{
		{
			name: "salutation and closing",
			text: "Dear Ms. Rivera,\n\nI am excited to apply.\n\nI look forward to talking.\n\nBest regards,",
			want: types.CoverLetter{
				Salutation: "Dear Ms. Rivera,",
				Content:    "I am excited to apply.\n\nI look forward to talking.",
				Closing:    "Best regards,",
			},
		},
		{
			name: "colon salutation and signature line",
			text: "Dear Hiring Team:\nBody text here.\nSincerely,\nJane Smith",
			want: types.CoverLetter{
				Salutation: "Dear Hiring Team:",
				Content:    "Body text here.",
				Closing:    "Sincerely,",
			},
		},
		{
			name: "fenced prose without markers",
			text: "```\nI would love to join your team.\n```",
			want: types.CoverLetter{
				Salutation: types.DefaultSalutation,
				Content:    "I would love to join your team.",
				Closing:    types.DefaultClosing,
			},
		},
		{
			name: "lower case closing",
			text: "Thanks for reading.\nyours truly",
			want: types.CoverLetter{
				Salutation: types.DefaultSalutation,
				Content:    "Thanks for reading.",
				Closing:    "Yours truly,",
			},
		},
		{
			name: "kind regards keeps its qualifier",
			text: "Dear Sam,\nBody text here.\n\nKind regards,\nJane Smith",
			want: types.CoverLetter{
				Salutation: "Dear Sam,",
				Content:    "Body text here.",
				Closing:    "Kind regards,",
			},
		},
		{
			name: "regards inside a sentence is body text",
			text: "I hold your platform team in high regards",
			want: types.CoverLetter{
				Salutation: types.DefaultSalutation,
				Content:    "I hold your platform team in high regards",
				Closing:    types.DefaultClosing,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoverLetterText(tt.text)
			if got != tt.want {
				t.Errorf("CoverLetterText() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
