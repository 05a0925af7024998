package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvwizard/internal/types"
)

var reviewTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestReviewDefaults(t *testing.T) {
	job := types.JobDescription{Title: "Engineer", Company: "Acme"}
	result, _ := Review(types.Raw{}, job, reviewTime)

	rr := result.ResumeReview
	assert.Equal(t, 50.0, rr.OverallScore)
	assert.Equal(t, types.LevelNeedsWork, rr.OverallLevel)
	assert.Equal(t, "Review completed.", rr.Summary)
	assert.Equal(t, "Job Alignment", rr.Categories.JobAlignment.Title)
	assert.Equal(t, "Assesses clarity and ease of reading.", rr.Categories.Readability.Tooltip)
	assert.Equal(t, "medium", rr.Categories.SkillsMatch.Importance)
	assert.NotNil(t, rr.Categories.SkillsMatch.Suggestions)
	assert.NotNil(t, rr.KeywordAnalysis.MatchedKeywords)
	assert.NotNil(t, rr.KeywordAnalysis.MissingKeywords)
	assert.Zero(t, rr.KeywordAnalysis.MatchRate)
	assert.NotNil(t, rr.SectionReviews)
	assert.NotNil(t, rr.CriticalIssues)
	assert.Nil(t, result.CoverLetterReview)
	assert.Equal(t, 50.0, result.CompatibilityScore)
	assert.Equal(t, "Engineer", result.JobTitle)
	assert.Equal(t, "Acme", result.Company)
	assert.Equal(t, reviewTime, result.ReviewedAt)
}

func TestReviewLevelIsDerivedFromScore(t *testing.T) {
	for score := 0; score <= 100; score += 5 {
		raw := types.Raw{
			"resumeReview": map[string]any{
				"overallScore": float64(score),
				"overallLevel": "excellent",
				"categories": map[string]any{
					"jobAlignment": map[string]any{"score": float64(score), "level": "excellent"},
				},
			},
			"coverLetterReview": map[string]any{
				"overallScore": float64(score),
				"overallLevel": "critical",
			},
		}

		result, _ := Review(raw, types.JobDescription{}, reviewTime)
		want := types.LevelForScore(float64(score))
		assert.Equal(t, want, result.ResumeReview.OverallLevel, "score %d", score)
		assert.Equal(t, want, result.ResumeReview.Categories.JobAlignment.Level, "score %d", score)
		require.NotNil(t, result.CoverLetterReview)
		assert.Equal(t, want, result.CoverLetterReview.OverallLevel, "score %d", score)
	}
}

func TestReviewCoverLetterBlock(t *testing.T) {
	raw := rawFrom(t, `{
		"resumeReview": {
			"overallScore": 32,
			"criticalIssues": ["Email 'jane@example.com' is a placeholder"],
			"sectionReviews": [{"sectionName": "Contact Information", "score": 25}, "junk"],
			"keywordAnalysis": {"matchedKeywords": ["Go", {"keyword": "Kubernetes", "importance": "critical"}], "matchRate": 140}
		},
		"coverLetterReview": {"categories": {"tone": {"score": 91}}},
		"compatibilityScore": 40
	}`)

	result, report := Review(raw, types.JobDescription{}, reviewTime)
	rr := result.ResumeReview
	assert.Equal(t, types.LevelCritical, rr.OverallLevel)

	contact, ok := rr.Section(types.SectionContactInformation)
	require.True(t, ok)
	assert.Equal(t, types.LevelCritical, types.LevelForScore(contact.Score))
	assert.Len(t, rr.SectionReviews, 1)

	require.Len(t, rr.KeywordAnalysis.MatchedKeywords, 2)
	assert.True(t, rr.KeywordAnalysis.MatchedKeywords[0].Found)
	assert.Equal(t, "nice_to_have", rr.KeywordAnalysis.MatchedKeywords[0].Importance)
	assert.Equal(t, "critical", rr.KeywordAnalysis.MatchedKeywords[1].Importance)
	assert.Equal(t, 100.0, rr.KeywordAnalysis.MatchRate)

	require.NotNil(t, result.CoverLetterReview)
	assert.Equal(t, "Professional Tone", result.CoverLetterReview.Categories.Tone.Title)
	assert.Equal(t, types.LevelExcellent, result.CoverLetterReview.Categories.Tone.Level)
	assert.Equal(t, "Opening Impact", result.CoverLetterReview.Categories.OpeningImpact.Title)
	assert.Equal(t, 40.0, result.CompatibilityScore)
	assert.NotEmpty(t, report.Coerced)
}

func TestReviewNullCoverLetter(t *testing.T) {
	result, _ := Review(rawFrom(t, `{"coverLetterReview": null}`), types.JobDescription{}, reviewTime)
	assert.Nil(t, result.CoverLetterReview)
}
