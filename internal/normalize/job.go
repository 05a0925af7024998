package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"cvwizard/internal/types"
)

var (
	salaryRangePattern = regexp.MustCompile(`(\d[\d,.]*)\s*([kK])?\s*[-–]\s*(?:[$€£¥]|USD|EUR|GBP|JPY)?\s*(\d[\d,.]*)\s*([kK])?`)
	currencyPattern    = regexp.MustCompile(`[$€£¥]|USD|EUR|GBP|JPY`)
	periodPattern      = regexp.MustCompile(`(?i)/\s*(month|mo|year|yr|hour|hr)`)
)

// Job converts a raw model object into a JobDescription. An empty description
// falls back to the text the user supplied.
func Job(raw types.Raw, rawText string) (types.JobDescription, Report) {
	var report Report
	report.Coerced = shapeViolations("job", raw)

	salary := strings.TrimSpace(str(raw["salary"]))
	job := types.JobDescription{
		Title:              str(raw["title"]),
		Company:            str(raw["company"]),
		Location:           str(raw["location"]),
		Description:        strOr(raw["description"], rawText),
		Salary:             salary,
		SalaryRange:        ParseSalaryRange(salary),
		ExperienceRequired: str(raw["experienceRequired"]),
		EmploymentType:     str(raw["employmentType"]),
		WorkMode:           str(raw["workMode"]),
		TeamSize:           str(raw["teamSize"]),
		Industry:           str(raw["industry"]),
		ApplicationMethod:  str(raw["applicationMethod"]),
		Requirements:       stringList(raw["requirements"]),
		Responsibilities:   stringList(raw["responsibilities"]),
		Skills:             stringList(raw["skills"]),
		Benefits:           stringList(raw["benefits"]),
	}
	if str(raw["description"]) == "" {
		report.missing("description")
	}
	return job, report
}

// RawJob is the degraded result used when parsing fails: the text becomes
// the description and every structured field stays empty.
func RawJob(rawText string) types.JobDescription {
	return types.JobDescription{
		Description:      rawText,
		Requirements:     []string{},
		Responsibilities: []string{},
		Skills:           []string{},
		Benefits:         []string{},
	}
}

// JobRecord fills nil slices of a caller supplied job description.
func JobRecord(job types.JobDescription) types.JobDescription {
	for _, s := range []*[]string{&job.Requirements, &job.Responsibilities, &job.Skills, &job.Benefits} {
		*s = append(make([]string, 0, len(*s)), *s...)
	}
	if job.SalaryRange == nil {
		job.SalaryRange = ParseSalaryRange(job.Salary)
	}
	return job
}

// ParseSalaryRange extracts "<min> - <max>" with an optional currency and
// period suffix. It returns nil when no numeric range is present.
func ParseSalaryRange(salary string) *types.SalaryRange {
	m := salaryRangePattern.FindStringSubmatch(salary)
	if m == nil {
		return nil
	}
	lo, okLo := parseAmount(m[1], m[2] != "" || m[4] != "")
	hi, okHi := parseAmount(m[3], m[4] != "")
	if !okLo || !okHi {
		return nil
	}

	r := &types.SalaryRange{Min: lo, Max: hi}
	if c := currencyPattern.FindString(salary); c != "" {
		r.Currency = c
	}
	if p := periodPattern.FindStringSubmatch(salary); p != nil {
		r.Period = strings.ToLower(p[1])
	}
	return r
}

// parseAmount reads "4,500" or "4.5" (with thousands when k is set).
func parseAmount(s string, thousands bool) (float64, bool) {
	s = strings.TrimRight(strings.ReplaceAll(s, ",", ""), ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if thousands {
		f *= 1000
	}
	return f, true
}
