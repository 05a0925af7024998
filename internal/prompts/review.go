package prompts

import (
	"strconv"
	"strings"

	"cvwizard/internal/types"
)

// Review renders the first-review prompt. coverLetter is the letter text, or
// "" when the candidate has none; the cover letter review block of the schema
// is only requested when a letter is present.
func Review(cv types.CVData, job types.JobDescription, coverLetter string) string {
	var b strings.Builder
	b.WriteString(reviewIntro)
	b.WriteString("\n\n")
	b.WriteString(jobDetails(job))
	b.WriteString("\n\n**Resume Data:**\n")
	b.WriteString(indentedJSON(cv))
	b.WriteString("\n\n")
	b.WriteString(coverLetterBlock("Cover Letter", coverLetter))
	b.WriteString("\n\n")
	b.WriteString(placeholderTaxonomy)
	b.WriteString("\n\n")
	b.WriteString(reviewChecks)
	b.WriteString("\n\n**Output Format:**\nReturn ONLY a valid JSON object with this exact structure:\n\n{\n  \"resumeReview\": ")
	b.WriteString(resumeReviewSchema)
	b.WriteString(",\n  \"coverLetterReview\": ")
	if strings.TrimSpace(coverLetter) != "" {
		b.WriteString(coverLetterReviewSchema)
	} else {
		b.WriteString("null")
	}
	b.WriteString(",\n  \"compatibilityScore\": 0-100\n}\n\n")
	b.WriteString(reviewChecklist)
	return b.String()
}

// Recap summarizes a previous review for a re-analysis prompt.
type Recap struct {
	// ReviewNumber is the number of the review being requested (2 for the
	// first re-analysis).
	ReviewNumber int
	Previous     *types.AIReviewResult
}

// ReAnalysis renders the follow-up prompt sent on top of the prior chat
// turns. It relies on the model remembering the output format.
func ReAnalysis(cv types.CVData, job types.JobDescription, coverLetter string, recap Recap) string {
	var b strings.Builder
	writeRecap(&b, recap)
	b.WriteString("\n\n---\n\n**CURRENT RESUME DATA (review this against your previous feedback):**\n\n")
	b.WriteString(indentedJSON(cv))
	b.WriteString("\n\n")
	b.WriteString(coverLetterBlock("CURRENT COVER LETTER", coverLetter))
	b.WriteString("\n\n**JOB BEING APPLIED FOR:**\nTitle: ")
	b.WriteString(orNotSpecified(job.Title))
	b.WriteString("\nCompany: ")
	b.WriteString(orNotSpecified(job.Company))
	b.WriteString("\n\n---\n\n")
	b.WriteString(reAnalysisOutro)
	return b.String()
}

// StandaloneReAnalysis renders a re-analysis for a session whose chat turns
// were lost: the recap is followed by the complete review instructions.
func StandaloneReAnalysis(cv types.CVData, job types.JobDescription, coverLetter string, recap Recap) string {
	var b strings.Builder
	writeRecap(&b, recap)
	b.WriteString("\n\n---\n\n")
	b.WriteString(Review(cv, job, coverLetter))
	return b.String()
}

func writeRecap(b *strings.Builder, recap Recap) {
	n := strconv.Itoa(recap.ReviewNumber)
	prevN := strconv.Itoa(recap.ReviewNumber - 1)

	b.WriteString("**RE-ANALYSIS REQUEST (Review #" + n + ")**\n\n")
	b.WriteString("The user asked for another review after seeing your previous one. They may have changed the resume to address your feedback, or they may want a second opinion. Either way they rely on you to track their progress.\n\n")
	b.WriteString("**WHAT YOU PREVIOUSLY SAID (Review #" + prevN + "):**\n")

	prev := recap.Previous
	if prev == nil {
		b.WriteString("- Previous result unavailable\n")
	} else {
		r := prev.ResumeReview
		b.WriteString("- Overall Score: " + formatScore(r.OverallScore) + "/100 (" + string(r.OverallLevel) + ")\n")
		b.WriteString("- Summary: \"" + r.Summary + "\"\n")
	}

	var issues, wins []string
	contact := "N/A"
	if prev != nil {
		issues = prev.ResumeReview.CriticalIssues
		wins = prev.ResumeReview.QuickWins
		if s, ok := prev.ResumeReview.Section(types.SectionContactInformation); ok {
			contact = formatScore(s.Score)
		}
	}
	b.WriteString("\n**Critical Issues You Previously Identified:**\n")
	b.WriteString(numbered(issues, "- None identified"))
	b.WriteString("\n\n**Quick Wins You Previously Suggested:**\n")
	b.WriteString(numbered(wins, "- None suggested"))
	b.WriteString("\n\n**Previous Contact Info Score:** " + contact + "/100\n\n---\n\n")

	b.WriteString("**YOUR RE-ANALYSIS INSTRUCTIONS:**\n\n")
	b.WriteString("1. **COMPARE** the current data with your previous feedback. Has anything changed? If the email was a placeholder before, is it still one? If the phone had X characters, does it still?\n")
	b.WriteString("2. **BE CONSISTENT.** An issue that existed before and still exists must be flagged again at the same severity. Do not call something fine that was not fixed, and do not contradict yourself without a real change in the data.\n")
	b.WriteString("3. **ACKNOWLEDGE IMPROVEMENTS.** When something was fixed, say so explicitly.\n")
	b.WriteString("4. **AVOID INFINITE LOOPS.** If the same issues persist in review #" + n + ", say it directly: \"This is review #" + n + " and [issue] still hasn't been fixed. Please update [field] before re-analyzing.\"\n")
	b.WriteString("5. **SCORES FOLLOW REALITY.** Nothing changed: the score stays within 5 points. Issues fixed: the score improves. New issues: the score drops. Explain why the score moved or did not.")
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

const reAnalysisOutro = `Now provide your re-analysis. Remember:
- You have memory of what you said before
- Be consistent and track progress
- If nothing changed, tell the user to update the resume before re-analyzing

Respond with the same JSON format as before.`

const reviewIntro = `You are reviewing application materials with an obsessive eye for detail. Provide an EXHAUSTIVE, meticulous review.

**CRITICAL CONTEXT:**
This is the ACTUAL resume the candidate will submit. It is NOT masked, sanitized or anonymized. Every value below is exactly what an employer will see. If you miss a problem, the candidate submits a flawed resume and loses opportunities. Review it as if a friend asked you to check it before they apply.`

// placeholderTaxonomy is the lexical fake-data detection contract. Matches
// must drive the Contact Information score down sharply.
const placeholderTaxonomy = `**CRITICAL: DETECTING FAKE, DUMMY AND PLACEHOLDER DATA**

This is the most important part of your review. People forget to replace template values. If you miss them, the candidate submits a resume nobody can reply to.

**DUMMY EMAILS (any match is INVALID, score Contact Information LOW):**
- Contains "example" anywhere: "name@example.com", "jane.example@email.com"
- Contains "test", "sample", "demo", "placeholder" or "dummy": "test@test.com", "testuser@gmail.com"
- Generic templates: "email@domain.com", "your.email@company.com", "user@email.com"
- Contains "xxx" or "XXX"
- The domain "email.com" is suspicious; real people use gmail, outlook, yahoo or a company domain

**DUMMY PHONE NUMBERS (any match is INVALID):**
- Literal "X" or "x" filler characters: "+234 80XXXXXXXX", "555-XXX-XXXX"
- Sequential digits: "1234567890", "123-456-7890"
- All zeros: "0000000000", "000-000-0000"
- The fictional US 555 prefix: "(555) 555-5555"
- Wrong digit count for the country

**DUMMY URLS:**
- example.com and example.org are RESERVED documentation domains and are never real
- "yourwebsite", "yourportfolio", "mysite", "website.com", "portfolio.com"
- Template profiles: "linkedin.com/in/yourprofile", "linkedin.com/in/username", "github.com/username", "github.com/yourusername"

**DUMMY NAMES:** "John Doe", "Jane Doe", "John Smith", "Test User", "Your Name", "Full Name", "First Last", or a single word where a full name is expected.

**DUMMY LOCATIONS:** "City, State", "City, Country", "Your City", "123 Main Street".

**OTHER PLACEHOLDERS:** "Lorem ipsum", "TBD", "TODO", "N/A", "FIXME", "[Your text here]", "<insert>", "Company Name", "Job Title", and empty strings where data should be.

Any of these is a CRITICAL ISSUE. A recruiter cannot contact someone at "example@email.com" or "+234 80XXXXXXXX". Contact information like this scores 20-40, NOT 100.`

const reviewChecks = `**THOROUGH CHECKS:**

1. **Contact Information** (most critical): is the email real, the phone complete and real, the location a real place, the LinkedIn and GitHub real profiles?
2. **Personal Info**: a real name, a title aligned with the target role, a bio written for this role.
3. **Experience**: real company names, dates in the past, achievement-focused bullets with metrics, technologies matching the job.
4. **Skills**: relevant to the job; name critical skills from the posting that are missing.
5. **Education**: real institutions, reasonable dates.
6. **Projects**: real descriptions, plausible links.

**CONSISTENCY AND LOGIC:**
- Timelines: impossible overlaps of full-time roles, graduating before starting, future dates
- Title vs content: a "Senior" title with one year of experience, a bio the experience does not support
- Skills vs experience: skills never demonstrated anywhere else
- Numbers that do not add up: "Led a team of 50" at a 10-person startup, implausible growth claims
- Tailoring: is this resume actually written for THIS job?
- Red flags: unexplained gaps, demotions without context, very short stints

**SCORING:**
Score by how likely the resume is to pass ATS screening, earn an interview and present a strong candidate. Missing or fake contact details are devastating no matter how good the rest is.
- 90-100: exceptional, ready to submit
- 75-89: strong, minor improvements possible
- 60-74: decent, noticeable issues to fix first
- 40-59: needs significant work
- 20-39: serious issues, such as fake or missing contact info
- 0-19: unusable, placeholder content or fundamentally broken`

const resumeReviewSchema = `{
    "overallScore": 0-100,
    "summary": "2-3 sentence executive summary",
    "categories": {
      "jobAlignment": {"score": 0-100, "title": "Job Alignment", "description": "How well the resume matches the job requirements", "suggestions": ["specific, actionable suggestion"], "importance": "high", "tooltip": "Measures how closely your experience, skills and achievements align with what the employer is seeking."},
      "impactStatements": {"score": 0-100, "title": "Impact Statements", "description": "Quality of achievement-focused bullet points", "suggestions": ["..."], "importance": "high", "tooltip": "Evaluates whether your bullet points show concrete results rather than duties."},
      "skillsMatch": {"score": 0-100, "title": "Skills Match", "description": "How well listed skills match the job", "suggestions": ["..."], "importance": "high", "tooltip": "Compares your skills with the required and preferred skills in the posting."},
      "experienceRelevance": {"score": 0-100, "title": "Experience Relevance", "description": "Relevance of work history to the role", "suggestions": ["..."], "importance": "high", "tooltip": "Assesses whether your work history shows relevant, recent experience."},
      "quantifiableResults": {"score": 0-100, "title": "Quantifiable Results", "description": "Use of metrics and measurable outcomes", "suggestions": ["..."], "importance": "medium", "tooltip": "Measures specific numbers, percentages and metrics in your achievements."},
      "professionalFormatting": {"score": 0-100, "title": "Professional Formatting", "description": "Structure and presentation", "suggestions": ["..."], "importance": "medium", "tooltip": "Evaluates structure, readability and professional appearance."},
      "keywordOptimization": {"score": 0-100, "title": "Keyword Optimization", "description": "Job-specific keywords for ATS", "suggestions": ["..."], "importance": "high", "tooltip": "Measures how well your resume includes keywords from the job description."},
      "readability": {"score": 0-100, "title": "Readability", "description": "Clarity and concision", "suggestions": ["..."], "importance": "medium", "tooltip": "Assesses how quickly a recruiter can scan and understand your resume."}
    },
    "keywordAnalysis": {
      "matchedKeywords": [{"keyword": "keyword", "found": true, "context": "Found in skills section", "importance": "critical"}],
      "missingKeywords": [{"keyword": "keyword", "found": false, "context": "Consider adding to skills", "importance": "important"}],
      "matchRate": 0-100
    },
    "sectionReviews": [
      {"sectionName": "Contact Information", "score": 0-100, "feedback": "Check email, phone, LinkedIn and location. Missing or placeholder values score LOW.", "strengths": ["valid contact details"], "improvements": ["exactly which contact detail is missing or fake"]},
      {"sectionName": "Professional Summary", "score": 0-100, "feedback": "...", "strengths": ["..."], "improvements": ["..."]},
      {"sectionName": "Work Experience", "score": 0-100, "feedback": "...", "strengths": ["..."], "improvements": ["..."]},
      {"sectionName": "Skills", "score": 0-100, "feedback": "...", "strengths": ["..."], "improvements": ["..."]},
      {"sectionName": "Projects", "score": 0-100, "feedback": "...", "strengths": ["..."], "improvements": ["..."]},
      {"sectionName": "Education", "score": 0-100, "feedback": "...", "strengths": ["..."], "improvements": ["..."]}
    ],
    "topStrengths": ["specific strength"],
    "criticalIssues": ["MUST list any missing or placeholder contact info here"],
    "quickWins": ["easy fix that would immediately raise the score"]
  }`

const coverLetterReviewSchema = `{
    "overallScore": 0-100,
    "summary": "2-3 sentence summary, mention critical issues",
    "categories": {
      "openingImpact": {"score": 0-100, "title": "Opening Impact", "description": "How compelling the opening is", "suggestions": ["..."], "importance": "high", "tooltip": "The first paragraph decides whether the reader keeps going."},
      "companyKnowledge": {"score": 0-100, "title": "Company Knowledge", "description": "Research about the company", "suggestions": ["..."], "importance": "medium", "tooltip": "Shows whether you know why you want this company specifically."},
      "valueProposition": {"score": 0-100, "title": "Value Proposition", "description": "Clarity of the value you bring", "suggestions": ["..."], "importance": "high", "tooltip": "Measures how clearly you say what you can do for the employer."},
      "relevantExamples": {"score": 0-100, "title": "Relevant Examples", "description": "Specific, relevant achievements", "suggestions": ["..."], "importance": "high", "tooltip": "Evaluates whether claims are backed by concrete examples."},
      "enthusiasm": {"score": 0-100, "title": "Enthusiasm", "description": "Genuine interest in the role", "suggestions": ["..."], "importance": "medium", "tooltip": "Captures whether your interest comes across as authentic."},
      "callToAction": {"score": 0-100, "title": "Call to Action", "description": "Strength of the closing", "suggestions": ["..."], "importance": "medium", "tooltip": "The closing should invite next steps confidently."},
      "tone": {"score": 0-100, "title": "Professional Tone", "description": "Appropriateness of language", "suggestions": ["..."], "importance": "medium", "tooltip": "Professional yet personable."},
      "length": {"score": 0-100, "title": "Optimal Length", "description": "Not too long, not too short", "suggestions": ["..."], "importance": "low", "tooltip": "The ideal letter is 250-400 words in 3-4 paragraphs."}
    },
    "topStrengths": ["..."],
    "criticalIssues": ["..."],
    "quickWins": ["..."]
  }`

const reviewChecklist = `**BEFORE YOU RESPOND:**
- EMAIL: contains "example", "test" or "sample", or uses the "email.com" domain? Mark it FAKE.
- PHONE: contains "X" characters, all zeros or sequential digits? Mark it FAKE.
- URLS: any example.com or example.org? Mark it FAKE.
- NAME: "John Doe", "Jane Doe", "Your Name"? Mark it FAKE.
- Any TBD, XXX or Lorem ipsum left? Any empty field that should have data?
- Do the dates make sense? Does the title match the experience shown?
- Is the resume tailored to THIS job?

Be specific: do not write "improve contact info", write "Email 'test@example.com' appears to be a placeholder, add your real email". Be honest and constructive: every criticism comes with a way to fix it.`
