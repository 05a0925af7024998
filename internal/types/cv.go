package types

// PersonalInfo holds the identity and contact block of a CV. Every field is a
// plain string so a normalized record never renders a missing value.
type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Title     string `json:"title"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Website   string `json:"website"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Twitter   string `json:"twitter"`
	Portfolio string `json:"portfolio,omitempty"`
	Bio       string `json:"bio"`
}

// Experience is one work history entry
type Experience struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Description  []string `json:"description"`
	Technologies []string `json:"technologies"`
}

// Education is one education entry
type Education struct {
	ID           string   `json:"id"`
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	Field        string   `json:"field"`
	Location     string   `json:"location"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	GPA          string   `json:"gpa"`
	Achievements []string `json:"achievements"`
}

// Skill groups items under a category. The category is its natural key.
type Skill struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
	Level    string   `json:"level,omitempty"`
}

// Project is one portfolio project
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link"`
	GitHub       string   `json:"github"`
	Highlights   []string `json:"highlights"`
}

// Certification is one certificate or license
type Certification struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId"`
	Link         string `json:"link"`
}

// Language is a spoken language with a free-form proficiency
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// CVData is the aggregate root of a resume.
type CVData struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
}

// Clone returns a deep copy so callers can hand records across operations
// without sharing slice backing arrays.
func (cv CVData) Clone() CVData {
	out := cv
	out.Experience = make([]Experience, len(cv.Experience))
	for i, e := range cv.Experience {
		e.Description = cloneStrings(e.Description)
		e.Technologies = cloneStrings(e.Technologies)
		out.Experience[i] = e
	}
	out.Education = make([]Education, len(cv.Education))
	for i, e := range cv.Education {
		e.Achievements = cloneStrings(e.Achievements)
		out.Education[i] = e
	}
	out.Skills = make([]Skill, len(cv.Skills))
	for i, s := range cv.Skills {
		s.Items = cloneStrings(s.Items)
		out.Skills[i] = s
	}
	out.Projects = make([]Project, len(cv.Projects))
	for i, p := range cv.Projects {
		p.Technologies = cloneStrings(p.Technologies)
		p.Highlights = cloneStrings(p.Highlights)
		out.Projects[i] = p
	}
	out.Certifications = append(make([]Certification, 0, len(cv.Certifications)), cv.Certifications...)
	out.Languages = append(make([]Language, 0, len(cv.Languages)), cv.Languages...)
	return out
}

func cloneStrings(in []string) []string {
	return append(make([]string, 0, len(in)), in...)
}
