package formatters

import (
	"fmt"

	"cvwizard/internal/types"
)

// JobFormatter renders a structured job description.
type JobFormatter struct {
	style style
}

func (f *JobFormatter) Format(data any) (string, error) {
	job, ok := data.(types.JobDescription)
	if !ok {
		return "", fmt.Errorf("expected JobDescription, got %T", data)
	}

	d := f.style.newDoc()
	title := job.Title
	if title == "" {
		title = "Job Description"
	}
	d.title(title)
	d.field("Company", job.Company)
	d.field("Location", job.Location)
	d.field("Work mode", job.WorkMode)
	d.field("Employment", job.EmploymentType)
	d.field("Experience", job.ExperienceRequired)
	d.field("Salary", salary(job))
	d.field("Industry", job.Industry)
	d.field("Team size", job.TeamSize)
	d.field("Apply", job.ApplicationMethod)
	d.blank()
	d.paragraph(job.Description)

	d.titled("Requirements", job.Requirements)
	d.titled("Responsibilities", job.Responsibilities)
	d.titled("Skills", job.Skills)
	d.titled("Benefits", job.Benefits)

	return d.String(), nil
}

func (f *JobFormatter) SupportedType() string { return typeJob }

func salary(job types.JobDescription) string {
	if job.Salary != "" {
		return job.Salary
	}
	r := job.SalaryRange
	if r == nil || (r.Min == 0 && r.Max == 0) {
		return ""
	}
	out := fmt.Sprintf("%.0f - %.0f", r.Min, r.Max)
	if r.Currency != "" {
		out += " " + r.Currency
	}
	if r.Period != "" {
		out += " per " + r.Period
	}
	return out
}
