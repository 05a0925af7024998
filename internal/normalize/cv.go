package normalize

import "cvwizard/internal/types"

// Placeholder identity used when the model returns no name or title.
const (
	PlaceholderName  = "John Doe"
	PlaceholderTitle = "Professional"
)

// Profile selects the defaulting policy for a CV normalization.
type Profile struct {
	// IDBase is the index of the first synthetic list id.
	IDBase int
	// PlaceholderIdentity fills an absent name and title with placeholders.
	PlaceholderIdentity bool
	// DefaultSkillGroup turns a non-array skills value into one empty group.
	DefaultSkillGroup bool
}

var (
	// Extraction keeps the partial record honest: nothing is invented.
	Extraction = Profile{IDBase: 1}
	// Enhancement always yields a complete record.
	Enhancement = Profile{IDBase: 0, PlaceholderIdentity: true, DefaultSkillGroup: true}
)

// WithoutPlaceholders returns p with the identity placeholders disabled.
func (p Profile) WithoutPlaceholders() Profile {
	p.PlaceholderIdentity = false
	return p
}

// CV converts a raw model object into a complete CVData.
func CV(raw types.Raw, p Profile) (types.CVData, Report) {
	var report Report
	report.Coerced = shapeViolations("cv", raw)

	cv := types.CVData{
		PersonalInfo:   personalInfo(object(raw["personalInfo"]), p, &report),
		Experience:     experience(raw["experience"], p.IDBase),
		Education:      education(raw["education"], p.IDBase),
		Skills:         skills(raw["skills"], p.DefaultSkillGroup),
		Projects:       projects(raw["projects"], p.IDBase),
		Certifications: certifications(raw["certifications"], p.IDBase),
		Languages:      languages(raw["languages"]),
	}
	return cv, report
}

func personalInfo(m types.Raw, p Profile, report *Report) types.PersonalInfo {
	info := types.PersonalInfo{
		FullName:  str(m["fullName"]),
		Title:     str(m["title"]),
		Email:     str(m["email"]),
		Phone:     str(m["phone"]),
		Location:  str(m["location"]),
		Website:   str(m["website"]),
		LinkedIn:  str(m["linkedin"]),
		GitHub:    str(m["github"]),
		Twitter:   str(m["twitter"]),
		Portfolio: str(m["portfolio"]),
		Bio:       str(m["bio"]),
	}

	identity := []struct {
		field       string
		value       *string
		placeholder string
	}{
		{"personalInfo.fullName", &info.FullName, PlaceholderName},
		{"personalInfo.title", &info.Title, PlaceholderTitle},
	}
	for _, id := range identity {
		if *id.value != "" {
			continue
		}
		if p.PlaceholderIdentity {
			*id.value = id.placeholder
			report.defaulted(id.field)
		} else {
			report.missing(id.field)
		}
	}
	return info
}

func experience(v any, base int) []types.Experience {
	arr, _ := list(v)
	out := make([]types.Experience, 0, len(arr))
	for i, item := range arr {
		m := object(item)
		out = append(out, types.Experience{
			ID:           strOr(m["id"], syntheticID("exp", i+base)),
			Company:      str(m["company"]),
			Position:     str(m["position"]),
			Location:     str(m["location"]),
			StartDate:    str(m["startDate"]),
			EndDate:      strOr(m["endDate"], "Present"),
			Description:  stringList(m["description"]),
			Technologies: stringList(m["technologies"]),
		})
	}
	return out
}

func education(v any, base int) []types.Education {
	arr, _ := list(v)
	out := make([]types.Education, 0, len(arr))
	for i, item := range arr {
		m := object(item)
		out = append(out, types.Education{
			ID:           strOr(m["id"], syntheticID("edu", i+base)),
			Institution:  str(m["institution"]),
			Degree:       str(m["degree"]),
			Field:        str(m["field"]),
			Location:     str(m["location"]),
			StartDate:    str(m["startDate"]),
			EndDate:      str(m["endDate"]),
			GPA:          str(m["gpa"]),
			Achievements: stringList(m["achievements"]),
		})
	}
	return out
}

func skills(v any, defaultGroup bool) []types.Skill {
	arr, ok := list(v)
	if !ok {
		if defaultGroup {
			return []types.Skill{{Category: "Skills", Items: []string{}}}
		}
		return []types.Skill{}
	}
	out := make([]types.Skill, 0, len(arr))
	for _, item := range arr {
		m, isObj := item.(map[string]any)
		if !isObj {
			continue
		}
		out = append(out, types.Skill{
			Category: str(m["category"]),
			Items:    stringList(m["items"]),
			Level:    str(m["level"]),
		})
	}
	return out
}

func projects(v any, base int) []types.Project {
	arr, _ := list(v)
	out := make([]types.Project, 0, len(arr))
	for i, item := range arr {
		m := object(item)
		out = append(out, types.Project{
			ID:           strOr(m["id"], syntheticID("proj", i+base)),
			Name:         str(m["name"]),
			Description:  str(m["description"]),
			Technologies: stringList(m["technologies"]),
			Link:         str(m["link"]),
			GitHub:       str(m["github"]),
			Highlights:   stringList(m["highlights"]),
		})
	}
	return out
}

func certifications(v any, base int) []types.Certification {
	arr, _ := list(v)
	out := make([]types.Certification, 0, len(arr))
	for i, item := range arr {
		m := object(item)
		out = append(out, types.Certification{
			ID:           strOr(m["id"], syntheticID("cert", i+base)),
			Name:         str(m["name"]),
			Issuer:       str(m["issuer"]),
			Date:         str(m["date"]),
			CredentialID: str(m["credentialId"]),
			Link:         str(m["link"]),
		})
	}
	return out
}

func languages(v any) []types.Language {
	arr, _ := list(v)
	out := make([]types.Language, 0, len(arr))
	for _, item := range arr {
		switch l := item.(type) {
		case string:
			if l != "" {
				out = append(out, types.Language{Name: l})
			}
		case map[string]any:
			name := strOr(l["name"], str(l["language"]))
			if name == "" {
				continue
			}
			out = append(out, types.Language{
				Name:        name,
				Proficiency: strOr(l["proficiency"], str(l["fluency"])),
			})
		}
	}
	return out
}

// FromRecord re-normalizes an already typed CV, e.g. one supplied by a caller
// with nil slices or missing ids.
func FromRecord(cv types.CVData, p Profile) types.CVData {
	out := cv.Clone()
	for i := range out.Experience {
		if out.Experience[i].ID == "" {
			out.Experience[i].ID = syntheticID("exp", i+p.IDBase)
		}
		if out.Experience[i].EndDate == "" {
			out.Experience[i].EndDate = "Present"
		}
	}
	for i := range out.Education {
		if out.Education[i].ID == "" {
			out.Education[i].ID = syntheticID("edu", i+p.IDBase)
		}
	}
	for i := range out.Projects {
		if out.Projects[i].ID == "" {
			out.Projects[i].ID = syntheticID("proj", i+p.IDBase)
		}
	}
	for i := range out.Certifications {
		if out.Certifications[i].ID == "" {
			out.Certifications[i].ID = syntheticID("cert", i+p.IDBase)
		}
	}
	return out
}
