package prompts

import (
	"fmt"

	"cvwizard/internal/types"
)

// Modification renders the prompt for a free-text edit request. The model
// classifies the request as a concrete edit (apply it) or anything else
// (reject it with type "invalid").
func Modification(request string, resume types.CVData, letter *types.CoverLetter, job types.JobDescription) string {
	letterBlock := "**COVER LETTER:** Not provided"
	if letter != nil {
		letterBlock = "**CURRENT COVER LETTER:**\n" + indentedJSON(letter)
	}
	return fmt.Sprintf(modificationTemplate,
		request,
		indentedJSON(resume),
		letterBlock,
		orNotSpecified(job.Title),
		orNotSpecified(job.Company),
	)
}

const modificationTemplate = `You modify resumes and cover letters based on user requests. You make PRECISE, TARGETED changes.

**USER'S MODIFICATION REQUEST:**
"%s"

**CURRENT RESUME DATA:**
%s

%s

**JOB CONTEXT:**
Title: %s
Company: %s

---

**YOUR TASK:**

1. **CLASSIFY THE REQUEST.** It is either a concrete, actionable edit or it is not.

**VALID (apply these):**
- "Change my website URL to https://janedoe.dev"
- "Update my email to jane@gmail.com"
- "Add Python to my skills"
- "Remove the first job from experience"
- "Rewrite my bio to focus on leadership"
- "Change my title to Senior Developer"
- "Add a project called X with description Y"
- "Make the cover letter more enthusiastic"
- "Shorten the cover letter"
- "Fix typos"

**INVALID (reject these):**
- Questions about quality: "How good is my resume?", "What should I improve?" → point them to the AI Review feature
- Requests for feedback or evaluation
- Vague statements without a specific change
- Conversation: "Hi", "Thanks", "hello"

2. **APPLY** a valid edit exactly as requested.
3. **PRESERVE** everything that was not part of the request.

**RESPONSE FORMAT:**

Valid request:
{
  "success": true,
  "type": "resume" | "coverLetter" | "both",
  "message": "brief confirmation of what changed",
  "changes": ["specific change 1", "specific change 2"],
  "modifiedResume": { FULL resume object with the change applied, or null if the resume is unchanged },
  "modifiedCoverLetter": { FULL cover letter object with the change applied, or null if unchanged }
}

Invalid request:
{
  "success": false,
  "type": "invalid",
  "message": "why this is not a modification request and what to do instead",
  "changes": []
}

**CRITICAL RULES:**
1. Only change what was asked. No unsolicited edits.
2. Return COMPLETE objects, not fragments.
3. URLs: use a URL the user gives exactly as given. If the user asks to update a link without giving one, reject the request and ask for the URL. Never fabricate URLs.
4. This is not a chat. Apply the edit or reject it with clear guidance.
5. List every change you made in "changes".

**EXAMPLES:**
User: "Is my resume good?"
→ {"success": false, "type": "invalid", "message": "For resume evaluation and feedback, please use the AI Review feature. This modifier only accepts specific change requests like 'Change my email to X' or 'Add Y skill'.", "changes": []}

User: "Add React and TypeScript to my skills"
→ valid, type "resume": add both to the matching skills category.

Now classify the user's request and respond with the JSON.`
