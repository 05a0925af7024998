// Package prompts renders the instruction text sent to the model for each
// wizard operation. Builders are pure: the same inputs always produce the same
// prompt, and nothing here touches the network or parses model output.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"cvwizard/internal/types"
)

const notSpecified = "Not specified"

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

// indentedJSON serializes v with two-space indentation. The inputs are plain
// records, so marshalling cannot fail in practice; an error is rendered inline
// rather than dropped.
func indentedJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("<unserializable: %v>", err)
	}
	return string(b)
}

func joinedOr(items []string, sep string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, sep)
}

// numbered renders items as "1. a\n2. b", or fallback when empty.
func numbered(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, item)
	}
	return b.String()
}

// jobHeader renders the title/company/location block shared by most prompts.
func jobHeader(job types.JobDescription) string {
	return fmt.Sprintf("Title: %s\nCompany: %s\nLocation: %s",
		orNotSpecified(job.Title), orNotSpecified(job.Company), orNotSpecified(job.Location))
}

// jobDetails renders the full job block: header, description and lists.
func jobDetails(job types.JobDescription) string {
	return fmt.Sprintf(`**Job Details:**
%s

**Job Description:**
%s

**Key Requirements:**
%s

**Key Responsibilities:**
%s

**Required Skills:**
%s`,
		jobHeader(job),
		job.Description,
		joinedOr(job.Requirements, "\n"),
		joinedOr(job.Responsibilities, "\n"),
		joinedOr(job.Skills, ", "))
}

// coverLetterBlock renders the optional cover letter section.
func coverLetterBlock(label, text string) string {
	if strings.TrimSpace(text) == "" {
		return "**" + label + ":** Not provided"
	}
	return "**" + label + ":**\n" + text
}
