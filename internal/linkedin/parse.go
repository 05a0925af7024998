// Package linkedin imports JSON Resume documents, the format of LinkedIn
// profile exports, without calling the model.
package linkedin

import (
	"encoding/json"
	"fmt"
	"strings"

	"cvwizard/internal/errors"
	"cvwizard/internal/types"
)

type profile struct {
	Basics       basics        `json:"basics"`
	Work         []work        `json:"work"`
	Education    []education   `json:"education"`
	Skills       []skill       `json:"skills"`
	Projects     []project     `json:"projects"`
	Certificates []certificate `json:"certificates"`
	Languages    []language    `json:"languages"`
}

type basics struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	URL      string `json:"url"`
	Summary  string `json:"summary"`
	Location *struct {
		City        string `json:"city"`
		CountryCode string `json:"countryCode"`
	} `json:"location"`
	Profiles []struct {
		Network string `json:"network"`
		URL     string `json:"url"`
	} `json:"profiles"`
}

type work struct {
	Name       string   `json:"name"`
	Position   string   `json:"position"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
}

type education struct {
	Institution string `json:"institution"`
	Area        string `json:"area"`
	StudyType   string `json:"studyType"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Score       string `json:"score"`
}

type skill struct {
	Name     string   `json:"name"`
	Level    string   `json:"level"`
	Keywords []string `json:"keywords"`
}

type project struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Highlights  []string `json:"highlights"`
}

type certificate struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

type language struct {
	Language string `json:"language"`
	Fluency  string `json:"fluency"`
}

// Parse maps a JSON Resume document onto a CV. Every list in the result is
// non-nil and every item carries a 0-based id.
func Parse(data []byte) (types.CVData, error) {
	var p profile
	if err := json.Unmarshal(data, &p); err != nil {
		return types.CVData{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"profile export is not valid JSON Resume", err)
	}
	return fromProfile(p), nil
}

func fromProfile(p profile) types.CVData {
	cv := types.CVData{
		PersonalInfo: types.PersonalInfo{
			FullName: p.Basics.Name,
			Title:    p.Basics.Label,
			Email:    p.Basics.Email,
			Phone:    p.Basics.Phone,
			Location: location(p.Basics),
			Website:  p.Basics.URL,
			Bio:      p.Basics.Summary,
			LinkedIn: profileURL(p.Basics, "linkedin"),
			GitHub:   profileURL(p.Basics, "github"),
			Twitter:  profileURL(p.Basics, "twitter"),
		},
		Experience:     make([]types.Experience, 0, len(p.Work)),
		Education:      make([]types.Education, 0, len(p.Education)),
		Skills:         make([]types.Skill, 0, len(p.Skills)),
		Projects:       make([]types.Project, 0, len(p.Projects)),
		Certifications: make([]types.Certification, 0, len(p.Certificates)),
		Languages:      make([]types.Language, 0, len(p.Languages)),
	}

	for i, w := range p.Work {
		end := w.EndDate
		if end == "" {
			end = "Present"
		}
		var desc []string
		if w.Summary != "" || len(w.Highlights) > 0 {
			desc = append([]string{w.Summary}, w.Highlights...)
		}
		cv.Experience = append(cv.Experience, types.Experience{
			ID:           fmt.Sprintf("exp-%d", i),
			Company:      w.Name,
			Position:     w.Position,
			StartDate:    w.StartDate,
			EndDate:      end,
			Description:  nonNil(desc),
			Technologies: []string{},
		})
	}

	for i, e := range p.Education {
		cv.Education = append(cv.Education, types.Education{
			ID:           fmt.Sprintf("edu-%d", i),
			Institution:  e.Institution,
			Degree:       e.StudyType,
			Field:        e.Area,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			GPA:          e.Score,
			Achievements: []string{},
		})
	}

	for _, s := range p.Skills {
		category := s.Name
		if category == "" {
			category = "General"
		}
		cv.Skills = append(cv.Skills, types.Skill{
			Category: category,
			Items:    nonNil(s.Keywords),
			Level:    s.Level,
		})
	}

	for i, pr := range p.Projects {
		cv.Projects = append(cv.Projects, types.Project{
			ID:           fmt.Sprintf("proj-%d", i),
			Name:         pr.Name,
			Description:  pr.Description,
			Link:         pr.URL,
			Technologies: []string{},
			Highlights:   nonNil(pr.Highlights),
		})
	}

	for i, c := range p.Certificates {
		cv.Certifications = append(cv.Certifications, types.Certification{
			ID:     fmt.Sprintf("cert-%d", i),
			Name:   c.Name,
			Issuer: c.Issuer,
			Date:   c.Date,
			Link:   c.URL,
		})
	}

	for _, l := range p.Languages {
		cv.Languages = append(cv.Languages, types.Language{Name: l.Language, Proficiency: l.Fluency})
	}

	return cv
}

func location(b basics) string {
	if b.Location == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	for _, s := range []string{b.Location.City, b.Location.CountryCode} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func profileURL(b basics, network string) string {
	for _, p := range b.Profiles {
		if strings.EqualFold(p.Network, network) {
			return p.URL
		}
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
