package prompts

import (
	"fmt"
	"sort"
	"strings"

	"cvwizard/internal/types"
)

// coverLetterExperienceLimit bounds how much history a cover letter prompt
// carries. Older roles rarely belong in a letter.
const coverLetterExperienceLimit = 3

// CoverLetter renders the cover letter prompt from the most recent experience
// entries and a condensed skill list.
func CoverLetter(cv types.CVData, job types.JobDescription) string {
	return fmt.Sprintf(coverLetterTemplate,
		orNotSpecified(cv.PersonalInfo.FullName),
		orNotSpecified(cv.PersonalInfo.Title),
		orNotSpecified(cv.PersonalInfo.Bio),
		recentExperience(cv.Experience, coverLetterExperienceLimit),
		condensedSkills(cv.Skills),
		jobDetails(job),
		types.DefaultSalutation,
		types.DefaultClosing,
	)
}

// RecentExperience returns up to n experience entries, most recent first.
// Current roles ("Present") sort ahead of ended ones; YYYY-MM dates compare
// lexically. The input slice is not reordered.
func RecentExperience(experience []types.Experience, n int) []types.Experience {
	sorted := make([]types.Experience, len(experience))
	copy(sorted, experience)
	sort.SliceStable(sorted, func(i, j int) bool {
		ei, ej := endKey(sorted[i].EndDate), endKey(sorted[j].EndDate)
		if ei != ej {
			return ei > ej
		}
		return sorted[i].StartDate > sorted[j].StartDate
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func endKey(end string) string {
	if end == "" || strings.EqualFold(end, "present") {
		return "9999-99"
	}
	return end
}

func recentExperience(experience []types.Experience, n int) string {
	recent := RecentExperience(experience, n)
	if len(recent) == 0 {
		return notSpecified
	}
	var b strings.Builder
	for i, exp := range recent {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "- %s at %s (%s to %s)", exp.Position, exp.Company, exp.StartDate, exp.EndDate)
		for _, line := range exp.Description {
			fmt.Fprintf(&b, "\n  * %s", line)
		}
	}
	return b.String()
}

func condensedSkills(skills []types.Skill) string {
	if len(skills) == 0 {
		return notSpecified
	}
	lines := make([]string, 0, len(skills))
	for _, s := range skills {
		if len(s.Items) == 0 {
			continue
		}
		lines = append(lines, s.Category+": "+strings.Join(s.Items, ", "))
	}
	return joinedOr(lines, "\n")
}

const coverLetterTemplate = `Write a cover letter for this candidate and job.

**Candidate:**
Name: %s
Title: %s
Summary: %s

**Most Recent Experience:**
%s

**Skills:**
%s

%s

**Guidelines:**
- 3-4 paragraphs, 250-400 words
- Open with a specific reason the candidate fits this role, not a generic statement
- Back claims with concrete examples from the experience above
- Show knowledge of the company when the job details allow it
- Close with a confident call to action
- Do not invent experience, employers or numbers that are not in the data above

**Output Format:**
Return ONLY a valid JSON object:

{
  "salutation": "greeting line, e.g. \"%s\"",
  "content": "the letter body, paragraphs separated by blank lines, without salutation or closing",
  "closing": "closing line, e.g. \"%s\""
}`
