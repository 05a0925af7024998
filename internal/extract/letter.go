package extract

import (
	"regexp"
	"strings"

	"cvwizard/internal/types"
)

var (
	salutationPattern = regexp.MustCompile(`(?i)^(Dear\s+[^,\n]+[,:])`)
	// The closing starts its own line and may be followed by a single
	// signature line.
	closingPattern = regexp.MustCompile(`(?im)^[ \t]*(Sincerely|Best regards|Kind regards|Warm regards|Regards|Yours sincerely|Yours truly)[,\s]*(?:\n[^\n]{0,80})?\s*\z`)
)

// CoverLetterText splits a prose reply into salutation, body and closing.
// It never fails: missing parts fall back to the default salutation and closing.
func CoverLetterText(text string) types.CoverLetter {
	content := StripFences(text)
	letter := types.CoverLetter{
		Salutation: types.DefaultSalutation,
		Closing:    types.DefaultClosing,
	}

	if m := salutationPattern.FindStringSubmatch(content); m != nil {
		letter.Salutation = m[1]
		content = strings.TrimSpace(strings.Replace(content, m[0], "", 1))
	}

	if loc := closingPattern.FindStringSubmatchIndex(content); loc != nil {
		word := content[loc[2]:loc[3]]
		letter.Closing = closingWord(word) + ","
		content = strings.TrimSpace(content[:loc[0]])
	}

	letter.Content = content
	return letter
}

// closingWord keeps the closing as written, except that an all lower case
// match is capitalised.
func closingWord(word string) string {
	if word == strings.ToLower(word) {
		return strings.ToUpper(word[:1]) + word[1:]
	}
	return word
}
