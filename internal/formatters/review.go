package formatters

import (
	"fmt"

	"cvwizard/internal/types"
)

// ReviewFormatter renders a review result with its scores first.
type ReviewFormatter struct {
	style style
}

func (f *ReviewFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AIReviewResult)
	if !ok {
		return "", fmt.Errorf("expected AIReviewResult, got %T", data)
	}

	d := f.style.newDoc()
	d.title("Application Review")
	d.field("Position", joinNonEmpty(" at ", result.JobTitle, result.Company))
	d.score("Compatibility", result.CompatibilityScore, "")
	if !result.ReviewedAt.IsZero() {
		d.field("Reviewed", result.ReviewedAt.Format("2006-01-02 15:04"))
	}
	d.blank()

	r := result.ResumeReview
	d.section("Resume")
	d.score("Overall", r.OverallScore, string(r.OverallLevel))
	d.blank()
	d.paragraph(r.Summary)

	categories := []struct {
		name string
		sb   types.ScoreBreakdown
	}{
		{"Job alignment", r.Categories.JobAlignment},
		{"Impact statements", r.Categories.ImpactStatements},
		{"Skills match", r.Categories.SkillsMatch},
		{"Experience relevance", r.Categories.ExperienceRelevance},
		{"Quantifiable results", r.Categories.QuantifiableResults},
		{"Professional formatting", r.Categories.ProfessionalFormatting},
		{"Keyword optimization", r.Categories.KeywordOptimization},
		{"Readability", r.Categories.Readability},
	}
	d.heading("Categories")
	for _, c := range categories {
		d.score(c.name, c.sb.Score, string(c.sb.Level))
	}
	d.blank()

	if len(r.SectionReviews) > 0 {
		d.heading("Sections")
		for _, s := range r.SectionReviews {
			d.score(s.SectionName, s.Score, string(types.LevelForScore(s.Score)))
			d.paragraph(s.Feedback)
		}
	}

	if kw := r.KeywordAnalysis; len(kw.MatchedKeywords)+len(kw.MissingKeywords) > 0 {
		d.heading("Keywords")
		d.field("Match rate", fmt.Sprintf("%.0f%%", kw.MatchRate))
		d.field("Missing", keywordList(kw.MissingKeywords))
		d.blank()
	}

	d.titled("Critical issues", r.CriticalIssues)
	d.titled("Top strengths", r.TopStrengths)
	d.titled("Quick wins", r.QuickWins)

	if cl := result.CoverLetterReview; cl != nil {
		d.section("Cover Letter")
		d.score("Overall", cl.OverallScore, string(cl.OverallLevel))
		d.blank()
		d.paragraph(cl.Summary)
		d.titled("Critical issues", cl.CriticalIssues)
		d.titled("Top strengths", cl.TopStrengths)
		d.titled("Quick wins", cl.QuickWins)
	}

	return d.String(), nil
}

func (f *ReviewFormatter) SupportedType() string { return typeReview }

func keywordList(matches []types.KeywordMatch) string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Keyword)
	}
	return joinNonEmpty(", ", names...)
}
