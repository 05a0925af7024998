package prompts

import (
	"fmt"
	"strings"
)

// documentPhrase describes the attached documents. Only the wording varies
// with the count; the instructions are identical.
func documentPhrase(fileCount int) string {
	if fileCount == 1 {
		return "this document"
	}
	return fmt.Sprintf("these %d documents", fileCount)
}

// Extraction renders the prompt that turns attached resume files into a CV.
// The files themselves travel as separate multimodal parts.
func Extraction(fileCount int) string {
	docs := documentPhrase(fileCount)
	return strings.ReplaceAll(extractionTemplate, "{docs}", docs)
}

const extractionTemplate = `Analyze {docs} and extract ALL relevant information to build a comprehensive professional profile.

**Your Task:**
Consolidate {docs} into one complete, structured CV. If several documents are provided, merge them intelligently: combine unique experiences, skills, projects and details from every source without duplicating entries that describe the same thing.

**What to Extract:**

1. **Personal Information**: full name, professional title, email, phone, location, website, LinkedIn, GitHub, Twitter, portfolio, professional summary.
2. **Work Experience**: company, position, location, start and end dates, 3-4 bullet points of achievements and responsibilities (keep metrics, team sizes and impact), technologies used.
3. **Education**: institution, degree, field, location, dates, GPA if mentioned, honors and awards.
4. **Skills**: grouped by category (Frontend, Backend, DevOps, Design, ...), with proficiency if mentioned.
5. **Projects**: name, description, technologies, live and repository links, highlights.
6. **Certifications**: name, issuer, date, credential id and link.
7. **Languages**: name and proficiency (Native, Fluent, Intermediate, Basic).

**CRITICAL RULES:**
- Accuracy first: only extract what {docs} clearly state
- Keep specific metrics, dates, numbers and technical details
- Extract ALL mentioned technologies, frameworks and tools
` + dateRules + `
- Generate ids for every experience, education, project and certification entry, numbered from 1: "exp-1", "edu-1", "proj-1", "cert-1"
- If a field is not found, use an empty string "" or an empty array []
- Do NOT make up information

` + urlRules + `

**Output Format:**
Return ONLY a valid JSON object matching this structure:

` + cvSchema + `

Analyze {docs} carefully and return the complete JSON structure.`
