package formatters

import (
	"fmt"
	"strings"

	"cvwizard/internal/types"
)

// CVFormatter renders a CV as a readable document.
type CVFormatter struct {
	style style
}

func (f *CVFormatter) Format(data any) (string, error) {
	cv, ok := data.(types.CVData)
	if !ok {
		return "", fmt.Errorf("expected CVData, got %T", data)
	}

	d := f.style.newDoc()
	info := cv.PersonalInfo

	name := info.FullName
	if name == "" {
		name = "Curriculum Vitae"
	}
	d.title(name)
	d.field("Title", info.Title)
	d.field("Email", info.Email)
	d.field("Phone", info.Phone)
	d.field("Location", info.Location)
	d.field("Website", info.Website)
	d.field("LinkedIn", info.LinkedIn)
	d.field("GitHub", info.GitHub)
	d.field("Twitter", info.Twitter)
	d.field("Portfolio", info.Portfolio)
	d.blank()
	d.paragraph(info.Bio)

	if len(cv.Experience) > 0 {
		d.section("Experience")
		for _, e := range cv.Experience {
			d.heading(joinNonEmpty(" at ", e.Position, e.Company))
			d.field("Period", dateRange(e.StartDate, e.EndDate))
			d.field("Location", e.Location)
			d.field("Technologies", strings.Join(e.Technologies, ", "))
			d.list(e.Description)
			if len(e.Description) == 0 {
				d.blank()
			}
		}
	}

	if len(cv.Education) > 0 {
		d.section("Education")
		for _, e := range cv.Education {
			d.heading(joinNonEmpty(", ", joinNonEmpty(" in ", e.Degree, e.Field), e.Institution))
			d.field("Period", dateRange(e.StartDate, e.EndDate))
			d.field("Location", e.Location)
			d.field("GPA", e.GPA)
			d.list(e.Achievements)
			if len(e.Achievements) == 0 {
				d.blank()
			}
		}
	}

	if len(cv.Skills) > 0 {
		d.section("Skills")
		for _, s := range cv.Skills {
			label := s.Category
			if s.Level != "" {
				label += " (" + s.Level + ")"
			}
			d.field(label, strings.Join(s.Items, ", "))
		}
		d.blank()
	}

	if len(cv.Projects) > 0 {
		d.section("Projects")
		for _, p := range cv.Projects {
			d.heading(p.Name)
			d.paragraph(p.Description)
			d.field("Technologies", strings.Join(p.Technologies, ", "))
			d.field("Link", p.Link)
			d.field("GitHub", p.GitHub)
			d.list(p.Highlights)
			if len(p.Highlights) == 0 {
				d.blank()
			}
		}
	}

	if len(cv.Certifications) > 0 {
		d.section("Certifications")
		items := make([]string, 0, len(cv.Certifications))
		for _, c := range cv.Certifications {
			items = append(items, joinNonEmpty(", ", c.Name, c.Issuer, c.Date))
		}
		d.list(items)
	}

	if len(cv.Languages) > 0 {
		d.section("Languages")
		items := make([]string, 0, len(cv.Languages))
		for _, l := range cv.Languages {
			items = append(items, joinNonEmpty(": ", l.Name, l.Proficiency))
		}
		d.list(items)
	}

	return d.String(), nil
}

func (f *CVFormatter) SupportedType() string { return typeCV }
