package types

// SalaryRange is the numeric range parsed out of a free-text salary
type SalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
	Period   string  `json:"period,omitempty"`
}

// JobDescription is the job being applied for. Downstream operations treat it
// as read-only input.
type JobDescription struct {
	Title              string       `json:"title,omitempty"`
	Company            string       `json:"company,omitempty"`
	Location           string       `json:"location,omitempty"`
	Description        string       `json:"description"`
	Salary             string       `json:"salary,omitempty"`
	SalaryRange        *SalaryRange `json:"salaryRange,omitempty"`
	ExperienceRequired string       `json:"experienceRequired,omitempty"`
	EmploymentType     string       `json:"employmentType,omitempty"`
	WorkMode           string       `json:"workMode,omitempty"`
	TeamSize           string       `json:"teamSize,omitempty"`
	Industry           string       `json:"industry,omitempty"`
	ApplicationMethod  string       `json:"applicationMethod,omitempty"`
	Requirements       []string     `json:"requirements"`
	Responsibilities   []string     `json:"responsibilities"`
	Skills             []string     `json:"skills"`
	Benefits           []string     `json:"benefits"`
}
