package prompts

import "fmt"

// JobParsing renders the prompt that structures a job posting or recruiter
// message. Terse input is expanded rather than left empty.
func JobParsing(rawText string) string {
	return fmt.Sprintf(jobParsingTemplate, rawText)
}

const jobParsingTemplate = `Extract ALL possible structured information from the following job posting or recruiter message, even if it is very short.

**Text to Analyze:**
%s

**Extract:**
1. Job title, in any format ("Lead Backend Engineer", "Senior Developer")
2. Company name
3. Location ("City, Country", or "Remote" when mentioned)
4. Salary, exactly as written ("$4,500 - $5,500 USD/mo", "€50k-70k")
5. Experience required ("+6 yrs exp" → "6+ years")
6. Employment type (full-time, part-time, contract, freelance)
7. Work mode (remote, hybrid, onsite, flexible)
8. Description: clean and complete. If the text is short, EXPAND it into a full description from the title, skills and context instead of leaving it empty
9. Requirements, responsibilities, skills and benefits as arrays. Split tech stacks into individual skills ("Python/Django" → ["Python", "Django"])
10. Team size, industry and application method ("Send your CV") when mentioned

**Example:**

Input: "Search Atlas is hiring: Lead Backend Engineer (Python/Django)\n\nRole: Lead architecture & team (+6 yrs exp).\n\nTech: Django REST, mentoring.\n\nSalary: $4,500 - $5,500 USD/mo.\n\nReady to lead? Send your CV and join us!"

Output:
{
  "title": "Lead Backend Engineer",
  "company": "Search Atlas",
  "location": "",
  "description": "Lead Backend Engineer position at Search Atlas, responsible for leading the backend architecture and the engineering team. Requires 6+ years of experience with Python, Django and Django REST Framework, and includes mentoring team members.",
  "requirements": ["6+ years of experience", "Architecture leadership", "Team leadership"],
  "responsibilities": ["Lead architecture", "Lead the team", "Mentor team members"],
  "skills": ["Python", "Django", "Django REST Framework", "Mentoring"],
  "benefits": [],
  "salary": "$4,500 - $5,500 USD/mo",
  "experienceRequired": "6+ years",
  "employmentType": "full-time",
  "workMode": "",
  "applicationMethod": "Send your CV"
}

**Output Format:**
Return ONLY a valid JSON object with this structure:

{
  "title": "string or empty",
  "company": "string or empty",
  "location": "string or empty",
  "description": "string (complete, expanded if the input is short)",
  "requirements": ["..."],
  "responsibilities": ["..."],
  "skills": ["..."],
  "benefits": ["..."],
  "salary": "string or empty, exact format as written",
  "experienceRequired": "string or empty",
  "employmentType": "string or empty",
  "workMode": "string or empty",
  "teamSize": "string or empty",
  "industry": "string or empty",
  "applicationMethod": "string or empty"
}`
