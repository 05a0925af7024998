package types

const (
	DefaultSalutation = "Dear Hiring Manager,"
	DefaultClosing    = "Sincerely,"
)

// CoverLetter is a generated letter split into its three parts
type CoverLetter struct {
	Content    string `json:"content"`
	Salutation string `json:"salutation"`
	Closing    string `json:"closing"`
}

// EmptyCoverLetter returns a letter with only the default salutation and closing.
func EmptyCoverLetter() CoverLetter {
	return CoverLetter{Salutation: DefaultSalutation, Closing: DefaultClosing}
}

// Text renders the letter as a single block of text.
func (c CoverLetter) Text() string {
	out := c.Salutation
	if c.Content != "" {
		if out != "" {
			out += "\n\n"
		}
		out += c.Content
	}
	if c.Closing != "" {
		if out != "" {
			out += "\n\n"
		}
		out += c.Closing
	}
	return out
}
