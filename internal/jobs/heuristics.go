// Package jobs holds local, model-free checks on job description text.
package jobs

import "strings"

// shortTextLimit separates chat-style snippets from full postings.
const shortTextLimit = 200

var keywords = []string{
	"position", "role", "opportunity", "hiring", "looking for",
	"requirements", "responsibilities", "qualifications", "experience",
	"skills", "salary", "benefits", "remote", "location", "apply",
	"candidate", "job", "engineer", "developer", "lead", "senior",
	"yrs", "years", "exp", "usd", "eur", "send cv", "join us",
}

// KeywordMatches counts how many hiring keywords occur in text.
func KeywordMatches(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			n++
		}
	}
	return n
}

// IsLikelyJobDescription reports whether text reads like a job posting.
// Short texts need two keywords, longer ones three.
func IsLikelyJobDescription(text string) bool {
	threshold := 3
	if len(text) < shortTextLimit {
		threshold = 2
	}
	return KeywordMatches(text) >= threshold
}
