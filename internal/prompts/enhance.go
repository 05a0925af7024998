package prompts

import (
	"fmt"

	"cvwizard/internal/types"
)

// Enhancement renders the job-aware enhancement prompt. The whole partial CV
// is embedded as JSON.
func Enhancement(cv types.CVData, job types.JobDescription) string {
	return fmt.Sprintf(enhancementTemplate, jobDetails(job), indentedJSON(cv))
}

// QuickEnhancement renders the job-less cleanup prompt.
func QuickEnhancement(cv types.CVData) string {
	return fmt.Sprintf(quickEnhancementTemplate, indentedJSON(cv))
}

const enhancementTemplate = `Transform a basic CV into a compelling resume tailored to one specific job description.

%s

**Current CV Data:**
%s

**Your Mission:**

1. **Position the candidate** as a strong, credible match for this role.
2. **Strategic enhancement**:
   - Rewrite experience bullet points to highlight achievements that match the job requirements
   - Add realistic, quantified outcomes where the source implies them (team sizes, percentages, volumes)
   - Emphasize technologies and skills the job description asks for when the candidate has them
   - Write project highlights that demonstrate the required competencies
3. **Fill gaps sensibly**: when details are missing, infer conservative values from the job title, seniority and industry norms. Never leave "TBD" or placeholder text.
4. **Professional touch**:
   - A 3-4 sentence bio positioning the candidate for this role
   - Every experience has company, position, dates, 3-4 bullet points and technologies
   - Every project has name, description, technologies and 2-3 highlights
   - Skills are categorized and complete
5. **Keep the ids** already present in the CV data.

**FORMAT RULES:**
` + dateRules + `
- Tailor personalInfo.title to the job title when the candidate's experience supports it

` + urlRules + `

**Output Format:**
Return ONLY a valid JSON object matching this structure:

` + cvSchema + `

Make it impressive, believable and tailored.`

const quickEnhancementTemplate = `Clean up and complete this CV data without a target job. Make it professional and consistent: fix formatting, group skills into categories, turn prose into 3-4 achievement bullet points per role, and fill obviously missing details with conservative, industry-standard values.

**Current CV Data:**
%s

**FORMAT RULES:**
` + dateRules + `
- Keep the ids already present in the CV data

` + urlRules + `

**Output Format:**
Return ONLY a valid JSON object matching this structure:

` + cvSchema
