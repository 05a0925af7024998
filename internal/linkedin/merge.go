package linkedin

import (
	"fmt"

	"cvwizard/internal/types"
)

// Merge combines an imported CV with one extracted by the model. List fields
// are concatenated with imported items first; personal info scalars take the
// extracted value when it is non-empty. Neither input is modified.
func Merge(imported, extracted types.CVData) types.CVData {
	a, b := imported.Clone(), extracted.Clone()

	out := types.CVData{
		PersonalInfo:   mergePersonalInfo(a.PersonalInfo, b.PersonalInfo),
		Experience:     append(a.Experience, b.Experience...),
		Education:      append(a.Education, b.Education...),
		Skills:         append(a.Skills, b.Skills...),
		Projects:       append(a.Projects, b.Projects...),
		Certifications: append(a.Certifications, b.Certifications...),
		Languages:      append(a.Languages, b.Languages...),
	}

	seen := make(map[string]bool)
	for i := range out.Experience {
		out.Experience[i].ID = uniqueID(seen, out.Experience[i].ID)
	}
	for i := range out.Education {
		out.Education[i].ID = uniqueID(seen, out.Education[i].ID)
	}
	for i := range out.Projects {
		out.Projects[i].ID = uniqueID(seen, out.Projects[i].ID)
	}
	for i := range out.Certifications {
		out.Certifications[i].ID = uniqueID(seen, out.Certifications[i].ID)
	}
	return out
}

// uniqueID suffixes ids that collide after concatenation, e.g. an imported
// exp-1 and an extracted exp-1.
func uniqueID(seen map[string]bool, id string) string {
	candidate := id
	for n := 2; seen[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	seen[candidate] = true
	return candidate
}

func mergePersonalInfo(base, over types.PersonalInfo) types.PersonalInfo {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	return types.PersonalInfo{
		FullName:  pick(base.FullName, over.FullName),
		Title:     pick(base.Title, over.Title),
		Email:     pick(base.Email, over.Email),
		Phone:     pick(base.Phone, over.Phone),
		Location:  pick(base.Location, over.Location),
		Website:   pick(base.Website, over.Website),
		LinkedIn:  pick(base.LinkedIn, over.LinkedIn),
		GitHub:    pick(base.GitHub, over.GitHub),
		Twitter:   pick(base.Twitter, over.Twitter),
		Portfolio: pick(base.Portfolio, over.Portfolio),
		Bio:       pick(base.Bio, over.Bio),
	}
}
