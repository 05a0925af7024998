package linkedin

import "cvwizard/internal/types"

// Validate lists what a CV still lacks before it is worth enhancing. An empty
// result means complete.
func Validate(cv types.CVData) []string {
	var problems []string
	if cv.PersonalInfo.FullName == "" {
		problems = append(problems, "Full name is required")
	}
	if cv.PersonalInfo.Email == "" && cv.PersonalInfo.Phone == "" {
		problems = append(problems, "At least one contact method (email or phone) is required")
	}
	if len(cv.Experience) == 0 {
		problems = append(problems, "At least one work experience entry is required")
	}
	return problems
}
