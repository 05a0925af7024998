package formatters

import (
	"fmt"
	"strings"
)

// style renders the same document as plain text or markdown.
type style struct {
	markdown bool
}

var (
	plain    = style{}
	markdown = style{markdown: true}
)

type doc struct {
	style
	b strings.Builder
}

func (s style) newDoc() *doc { return &doc{style: s} }

func (d *doc) String() string { return strings.TrimRight(d.b.String(), "\n") + "\n" }

func (d *doc) title(text string) {
	if d.markdown {
		fmt.Fprintf(&d.b, "# %s\n\n", text)
		return
	}
	fmt.Fprintf(&d.b, "=== %s ===\n\n", strings.ToUpper(text))
}

func (d *doc) section(text string) {
	if d.markdown {
		fmt.Fprintf(&d.b, "## %s\n\n", text)
		return
	}
	fmt.Fprintf(&d.b, "--- %s ---\n", strings.ToUpper(text))
}

func (d *doc) heading(text string) {
	if d.markdown {
		fmt.Fprintf(&d.b, "### %s\n\n", text)
		return
	}
	fmt.Fprintf(&d.b, "%s\n", text)
}

// field writes "label: value" and skips empty values.
func (d *doc) field(label, value string) {
	if value == "" {
		return
	}
	if d.markdown {
		fmt.Fprintf(&d.b, "**%s:** %s  \n", label, value)
		return
	}
	fmt.Fprintf(&d.b, "%s: %s\n", label, value)
}

func (d *doc) score(label string, score float64, level string) {
	value := fmt.Sprintf("%.0f/100", score)
	if level != "" {
		value += " (" + level + ")"
	}
	d.field(label, value)
}

func (d *doc) paragraph(text string) {
	if text = strings.TrimSpace(text); text == "" {
		return
	}
	d.b.WriteString(text)
	d.b.WriteString("\n\n")
}

func (d *doc) list(items []string) {
	if len(items) == 0 {
		return
	}
	for _, item := range items {
		if d.markdown {
			fmt.Fprintf(&d.b, "- %s\n", item)
		} else {
			fmt.Fprintf(&d.b, "  * %s\n", item)
		}
	}
	d.b.WriteString("\n")
}

// titled writes a heading followed by a list, or nothing for an empty list.
func (d *doc) titled(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	d.heading(heading)
	d.list(items)
}

func (d *doc) blank() { d.b.WriteString("\n") }

func dateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start
	case start == "":
		return end
	default:
		return start + " - " + end
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
