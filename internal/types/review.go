package types

import "time"

// ScoreLevel is the qualitative band of a 0-100 score
type ScoreLevel string

const (
	LevelExcellent ScoreLevel = "excellent"
	LevelGood      ScoreLevel = "good"
	LevelFair      ScoreLevel = "fair"
	LevelNeedsWork ScoreLevel = "needs_work"
	LevelCritical  ScoreLevel = "critical"
)

// LevelForScore derives the level from a score. The level is never taken from
// model output.
func LevelForScore(score float64) ScoreLevel {
	switch {
	case score >= 90:
		return LevelExcellent
	case score >= 75:
		return LevelGood
	case score >= 60:
		return LevelFair
	case score >= 40:
		return LevelNeedsWork
	default:
		return LevelCritical
	}
}

type ScoreBreakdown struct {
	Score       float64    `json:"score"`
	Level       ScoreLevel `json:"level"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Suggestions []string   `json:"suggestions"`
	Importance  string     `json:"importance"`
	Tooltip     string     `json:"tooltip"`
}

// ResumeCategories is the fixed set of resume scoring categories.
type ResumeCategories struct {
	JobAlignment           ScoreBreakdown `json:"jobAlignment"`
	ImpactStatements       ScoreBreakdown `json:"impactStatements"`
	SkillsMatch            ScoreBreakdown `json:"skillsMatch"`
	ExperienceRelevance    ScoreBreakdown `json:"experienceRelevance"`
	QuantifiableResults    ScoreBreakdown `json:"quantifiableResults"`
	ProfessionalFormatting ScoreBreakdown `json:"professionalFormatting"`
	KeywordOptimization    ScoreBreakdown `json:"keywordOptimization"`
	Readability            ScoreBreakdown `json:"readability"`
}

// CoverLetterCategories is the fixed set of cover letter scoring categories.
type CoverLetterCategories struct {
	OpeningImpact    ScoreBreakdown `json:"openingImpact"`
	CompanyKnowledge ScoreBreakdown `json:"companyKnowledge"`
	ValueProposition ScoreBreakdown `json:"valueProposition"`
	RelevantExamples ScoreBreakdown `json:"relevantExamples"`
	Enthusiasm       ScoreBreakdown `json:"enthusiasm"`
	CallToAction     ScoreBreakdown `json:"callToAction"`
	Tone             ScoreBreakdown `json:"tone"`
	Length           ScoreBreakdown `json:"length"`
}

type KeywordMatch struct {
	Keyword    string `json:"keyword"`
	Found      bool   `json:"found"`
	Context    string `json:"context"`
	Importance string `json:"importance"`
}

type KeywordAnalysis struct {
	MatchedKeywords []KeywordMatch `json:"matchedKeywords"`
	MissingKeywords []KeywordMatch `json:"missingKeywords"`
	MatchRate       float64        `json:"matchRate"`
}

type SectionReview struct {
	SectionName  string   `json:"sectionName"`
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// SectionContactInformation is the section recapped across re-analyses
const SectionContactInformation = "Contact Information"

type ResumeReview struct {
	OverallScore    float64          `json:"overallScore"`
	OverallLevel    ScoreLevel       `json:"overallLevel"`
	Summary         string           `json:"summary"`
	Categories      ResumeCategories `json:"categories"`
	KeywordAnalysis KeywordAnalysis  `json:"keywordAnalysis"`
	SectionReviews  []SectionReview  `json:"sectionReviews"`
	TopStrengths    []string         `json:"topStrengths"`
	CriticalIssues  []string         `json:"criticalIssues"`
	QuickWins       []string         `json:"quickWins"`
}

// Section returns the named section review, if present.
func (r ResumeReview) Section(name string) (SectionReview, bool) {
	for _, s := range r.SectionReviews {
		if s.SectionName == name {
			return s, true
		}
	}
	return SectionReview{}, false
}

type CoverLetterReview struct {
	OverallScore   float64               `json:"overallScore"`
	OverallLevel   ScoreLevel            `json:"overallLevel"`
	Summary        string                `json:"summary"`
	Categories     CoverLetterCategories `json:"categories"`
	TopStrengths   []string              `json:"topStrengths"`
	CriticalIssues []string              `json:"criticalIssues"`
	QuickWins      []string              `json:"quickWins"`
}

// AIReviewResult is the normalized output of a review or re-analysis.
type AIReviewResult struct {
	ResumeReview       ResumeReview       `json:"resumeReview"`
	CoverLetterReview  *CoverLetterReview `json:"coverLetterReview,omitempty"`
	CompatibilityScore float64            `json:"compatibilityScore"`
	ReviewedAt         time.Time          `json:"reviewedAt"`
	JobTitle           string             `json:"jobTitle,omitempty"`
	Company            string             `json:"company,omitempty"`
}
