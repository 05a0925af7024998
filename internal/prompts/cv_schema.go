package prompts

// cvSchema is the JSON shape every CV-producing prompt asks for. idPattern is
// substituted with the id convention of the calling operation.
const cvSchema = `{
  "personalInfo": {
    "fullName": "string",
    "title": "string",
    "email": "string",
    "phone": "string",
    "location": "string",
    "website": "string",
    "linkedin": "string",
    "github": "string",
    "twitter": "string",
    "portfolio": "string",
    "bio": "string"
  },
  "experience": [
    {
      "id": "exp-N",
      "company": "string",
      "position": "string",
      "location": "string",
      "startDate": "YYYY-MM",
      "endDate": "YYYY-MM or Present",
      "description": ["achievement 1", "achievement 2", "achievement 3"],
      "technologies": ["tech1", "tech2"]
    }
  ],
  "education": [
    {
      "id": "edu-N",
      "institution": "string",
      "degree": "string",
      "field": "string",
      "location": "string",
      "startDate": "YYYY-MM",
      "endDate": "YYYY-MM",
      "gpa": "string",
      "achievements": ["achievement 1"]
    }
  ],
  "skills": [
    {"category": "Frontend", "items": ["skill1", "skill2"], "level": "Expert"}
  ],
  "projects": [
    {
      "id": "proj-N",
      "name": "string",
      "description": "string",
      "technologies": ["tech1"],
      "link": "string",
      "github": "string",
      "highlights": ["highlight 1"]
    }
  ],
  "certifications": [
    {"id": "cert-N", "name": "string", "issuer": "string", "date": "YYYY-MM", "credentialId": "string", "link": "string"}
  ],
  "languages": [
    {"name": "string", "proficiency": "Native/Fluent/Intermediate/Basic"}
  ]
}`

// urlRules is embedded in every prompt that can write links into a CV.
const urlRules = `**URL AND OWNERSHIP RULES (NON-NEGOTIABLE):**
- NEVER fabricate a URL. Every website, linkedin, github, twitter, portfolio, project link and credential link must appear verbatim in the source material. If it does not, output an empty string "".
- The candidate's personal "website" is THEIR site. A company URL found in the source belongs to the employer, not the candidate.
- A company URL may populate personalInfo.website ONLY if the candidate's position at that company contains an ownership marker: "Founder", "Co-founder", "CEO", "Owner" or "Principal". Otherwise leave that company URL out of personalInfo entirely.
- Example: "Software Engineer at Acme (acme.io)" → website stays "". "Founder & CEO at Acme (acme.io)" → website may be "https://acme.io".`

// dateRules is embedded in every prompt that produces CV dates.
const dateRules = `- Dates use the YYYY-MM format
- Use "Present" as the endDate of a current position`
