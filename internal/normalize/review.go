package normalize

import (
	"time"

	"cvwizard/internal/types"
)

type categoryDefault struct {
	title   string
	tooltip string
}

var resumeCategoryDefaults = map[string]categoryDefault{
	"jobAlignment":           {"Job Alignment", "Measures how closely your profile matches the specific job requirements."},
	"impactStatements":       {"Impact Statements", "Evaluates the quality of your achievement-focused bullet points."},
	"skillsMatch":            {"Skills Match", "Compares your skills against job requirements."},
	"experienceRelevance":    {"Experience Relevance", "Assesses how relevant your work history is to the target role."},
	"quantifiableResults":    {"Quantifiable Results", "Measures the presence of specific metrics in your achievements."},
	"professionalFormatting": {"Professional Formatting", "Evaluates structure and presentation quality."},
	"keywordOptimization":    {"Keyword Optimization", "Measures ATS-friendly keyword usage."},
	"readability":            {"Readability", "Assesses clarity and ease of reading."},
}

var coverLetterCategoryDefaults = map[string]categoryDefault{
	"openingImpact":    {"Opening Impact", "How compelling your opening paragraph is."},
	"companyKnowledge": {"Company Knowledge", "Demonstration of research about the company."},
	"valueProposition": {"Value Proposition", "Clarity of what unique value you bring."},
	"relevantExamples": {"Relevant Examples", "Use of specific, relevant achievements."},
	"enthusiasm":       {"Enthusiasm", "Genuine interest in the role."},
	"callToAction":     {"Call to Action", "Strength of your closing."},
	"tone":             {"Professional Tone", "Appropriateness of language and tone."},
	"length":           {"Optimal Length", "Whether the length is appropriate."},
}

const (
	defaultScore         = 50
	defaultReviewSummary = "Review completed."
	defaultImportance    = "medium"
	defaultKeywordTier   = "nice_to_have"
)

// Review converts a raw model object into an AIReviewResult. Every level is
// recomputed from its score; a level emitted by the model is ignored.
func Review(raw types.Raw, job types.JobDescription, now time.Time) (types.AIReviewResult, Report) {
	var report Report
	report.Coerced = shapeViolations("review", raw)

	result := types.AIReviewResult{
		ResumeReview:       resumeReview(object(raw["resumeReview"])),
		CompatibilityScore: clampScore(number(raw["compatibilityScore"], defaultScore)),
		ReviewedAt:         now,
		JobTitle:           job.Title,
		Company:            job.Company,
	}
	if cl, ok := raw["coverLetterReview"].(map[string]any); ok {
		clr := coverLetterReview(cl)
		result.CoverLetterReview = &clr
	}
	return result, report
}

func resumeReview(m types.Raw) types.ResumeReview {
	score := clampScore(number(m["overallScore"], defaultScore))
	cats := object(m["categories"])
	ka := object(m["keywordAnalysis"])

	return types.ResumeReview{
		OverallScore: score,
		OverallLevel: types.LevelForScore(score),
		Summary:      strOr(m["summary"], defaultReviewSummary),
		Categories: types.ResumeCategories{
			JobAlignment:           breakdown(cats, "jobAlignment", resumeCategoryDefaults),
			ImpactStatements:       breakdown(cats, "impactStatements", resumeCategoryDefaults),
			SkillsMatch:            breakdown(cats, "skillsMatch", resumeCategoryDefaults),
			ExperienceRelevance:    breakdown(cats, "experienceRelevance", resumeCategoryDefaults),
			QuantifiableResults:    breakdown(cats, "quantifiableResults", resumeCategoryDefaults),
			ProfessionalFormatting: breakdown(cats, "professionalFormatting", resumeCategoryDefaults),
			KeywordOptimization:    breakdown(cats, "keywordOptimization", resumeCategoryDefaults),
			Readability:            breakdown(cats, "readability", resumeCategoryDefaults),
		},
		KeywordAnalysis: types.KeywordAnalysis{
			MatchedKeywords: keywords(ka["matchedKeywords"], true),
			MissingKeywords: keywords(ka["missingKeywords"], false),
			MatchRate:       clampScore(number(ka["matchRate"], 0)),
		},
		SectionReviews: sectionReviews(m["sectionReviews"]),
		TopStrengths:   stringList(m["topStrengths"]),
		CriticalIssues: stringList(m["criticalIssues"]),
		QuickWins:      stringList(m["quickWins"]),
	}
}

func coverLetterReview(m types.Raw) types.CoverLetterReview {
	score := clampScore(number(m["overallScore"], defaultScore))
	cats := object(m["categories"])

	return types.CoverLetterReview{
		OverallScore: score,
		OverallLevel: types.LevelForScore(score),
		Summary:      strOr(m["summary"], defaultReviewSummary),
		Categories: types.CoverLetterCategories{
			OpeningImpact:    breakdown(cats, "openingImpact", coverLetterCategoryDefaults),
			CompanyKnowledge: breakdown(cats, "companyKnowledge", coverLetterCategoryDefaults),
			ValueProposition: breakdown(cats, "valueProposition", coverLetterCategoryDefaults),
			RelevantExamples: breakdown(cats, "relevantExamples", coverLetterCategoryDefaults),
			Enthusiasm:       breakdown(cats, "enthusiasm", coverLetterCategoryDefaults),
			CallToAction:     breakdown(cats, "callToAction", coverLetterCategoryDefaults),
			Tone:             breakdown(cats, "tone", coverLetterCategoryDefaults),
			Length:           breakdown(cats, "length", coverLetterCategoryDefaults),
		},
		TopStrengths:   stringList(m["topStrengths"]),
		CriticalIssues: stringList(m["criticalIssues"]),
		QuickWins:      stringList(m["quickWins"]),
	}
}

func breakdown(cats types.Raw, key string, defaults map[string]categoryDefault) types.ScoreBreakdown {
	m := object(cats[key])
	def := defaults[key]
	score := clampScore(number(m["score"], defaultScore))

	return types.ScoreBreakdown{
		Score:       score,
		Level:       types.LevelForScore(score),
		Title:       strOr(m["title"], def.title),
		Description: str(m["description"]),
		Suggestions: stringList(m["suggestions"]),
		Importance:  strOr(m["importance"], defaultImportance),
		Tooltip:     strOr(m["tooltip"], def.tooltip),
	}
}

func keywords(v any, found bool) []types.KeywordMatch {
	arr, _ := list(v)
	out := make([]types.KeywordMatch, 0, len(arr))
	for _, item := range arr {
		switch k := item.(type) {
		case string:
			out = append(out, types.KeywordMatch{Keyword: k, Found: found, Importance: defaultKeywordTier})
		case map[string]any:
			kw := str(k["keyword"])
			if kw == "" {
				continue
			}
			f := found
			if b, ok := k["found"].(bool); ok {
				f = b
			}
			out = append(out, types.KeywordMatch{
				Keyword:    kw,
				Found:      f,
				Context:    str(k["context"]),
				Importance: strOr(k["importance"], defaultKeywordTier),
			})
		}
	}
	return out
}

func sectionReviews(v any) []types.SectionReview {
	arr, _ := list(v)
	out := make([]types.SectionReview, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, types.SectionReview{
			SectionName:  str(m["sectionName"]),
			Score:        clampScore(number(m["score"], defaultScore)),
			Feedback:     str(m["feedback"]),
			Strengths:    stringList(m["strengths"]),
			Improvements: stringList(m["improvements"]),
		})
	}
	return out
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return s
}
