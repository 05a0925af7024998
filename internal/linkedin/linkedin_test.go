package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvwizard/internal/errors"
	"cvwizard/internal/types"
)

const sampleExport = `{
  "basics": {
    "name": "Jane Smith",
    "label": "Platform Engineer",
    "email": "jane.smith@corp.io",
    "url": "https://janesmith.dev",
    "summary": "Builds reliable systems.",
    "location": {"city": "Berlin", "countryCode": "DE"},
    "profiles": [
      {"network": "LinkedIn", "url": "https://linkedin.com/in/janesmith"},
      {"network": "GitHub", "url": "https://github.com/janesmith"}
    ]
  },
  "work": [
    {"name": "Acme", "position": "SRE", "startDate": "2020-01", "summary": "Ran infra", "highlights": ["Cut costs 30%"]},
    {"name": "Initech", "position": "Developer", "startDate": "2017-03", "endDate": "2019-12"}
  ],
  "education": [{"institution": "TU Berlin", "studyType": "MSc", "area": "CS", "score": "1.3"}],
  "skills": [{"name": "Languages", "keywords": ["Go", "Rust"], "level": "advanced"}, {"keywords": ["Kubernetes"]}],
  "projects": [{"name": "kv", "description": "A store", "url": "https://example.org/kv"}],
  "certificates": [{"name": "CKA", "issuer": "CNCF", "date": "2022-05"}],
  "languages": [{"language": "German", "fluency": "Native"}]
}`

func TestParse(t *testing.T) {
	cv, err := Parse([]byte(sampleExport))
	require.NoError(t, err)

	pi := cv.PersonalInfo
	assert.Equal(t, "Jane Smith", pi.FullName)
	assert.Equal(t, "Platform Engineer", pi.Title)
	assert.Equal(t, "Berlin, DE", pi.Location)
	assert.Equal(t, "Builds reliable systems.", pi.Bio)
	assert.Equal(t, "https://linkedin.com/in/janesmith", pi.LinkedIn)
	assert.Equal(t, "https://github.com/janesmith", pi.GitHub)
	assert.Empty(t, pi.Twitter)

	require.Len(t, cv.Experience, 2)
	assert.Equal(t, "exp-0", cv.Experience[0].ID)
	assert.Equal(t, "Present", cv.Experience[0].EndDate)
	assert.Equal(t, []string{"Ran infra", "Cut costs 30%"}, cv.Experience[0].Description)
	assert.Equal(t, "2019-12", cv.Experience[1].EndDate)
	assert.Equal(t, []string{}, cv.Experience[1].Description)

	require.Len(t, cv.Education, 1)
	assert.Equal(t, types.Education{
		ID: "edu-0", Institution: "TU Berlin", Degree: "MSc", Field: "CS", GPA: "1.3", Achievements: []string{},
	}, cv.Education[0])

	require.Len(t, cv.Skills, 2)
	assert.Equal(t, "advanced", cv.Skills[0].Level)
	assert.Equal(t, "General", cv.Skills[1].Category)

	assert.Equal(t, "proj-0", cv.Projects[0].ID)
	assert.Equal(t, "https://example.org/kv", cv.Projects[0].Link)
	assert.Equal(t, "cert-0", cv.Certifications[0].ID)
	assert.Equal(t, []types.Language{{Name: "German", Proficiency: "Native"}}, cv.Languages)
}

func TestParseEmptyDocument(t *testing.T) {
	cv, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, cv.Experience)
	assert.NotNil(t, cv.Skills)
	assert.NotNil(t, cv.Languages)
	assert.Empty(t, cv.PersonalInfo.Location)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"basics":`))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestMerge(t *testing.T) {
	imported, err := Parse([]byte(sampleExport))
	require.NoError(t, err)

	extracted := types.CVData{
		PersonalInfo: types.PersonalInfo{FullName: "Jane A. Smith", Phone: "+49 30 1234567"},
		Experience: []types.Experience{
			{ID: "exp-1", Company: "Globex", Position: "Lead"},
		},
		Skills: []types.Skill{{Category: "Cloud", Items: []string{"GCP"}}},
	}
	importedBefore := imported.Clone()

	merged := Merge(imported, extracted)

	t.Run("extracted scalars win when present", func(t *testing.T) {
		assert.Equal(t, "Jane A. Smith", merged.PersonalInfo.FullName)
		assert.Equal(t, "+49 30 1234567", merged.PersonalInfo.Phone)
		assert.Equal(t, "jane.smith@corp.io", merged.PersonalInfo.Email)
		assert.Equal(t, "Platform Engineer", merged.PersonalInfo.Title)
	})

	t.Run("lists concatenate imported first", func(t *testing.T) {
		require.Len(t, merged.Experience, 3)
		assert.Equal(t, "Acme", merged.Experience[0].Company)
		assert.Equal(t, "Globex", merged.Experience[2].Company)
		require.Len(t, merged.Skills, 3)
		assert.Equal(t, "Cloud", merged.Skills[2].Category)
	})

	t.Run("colliding ids are made unique", func(t *testing.T) {
		ids := map[string]bool{}
		for _, e := range merged.Experience {
			assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
			ids[e.ID] = true
		}
		assert.Equal(t, "exp-1-2", merged.Experience[2].ID)
	})

	t.Run("inputs untouched", func(t *testing.T) {
		assert.Equal(t, importedBefore, imported)
		assert.Equal(t, "exp-1", extracted.Experience[0].ID)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cv   types.CVData
		want []string
	}{
		{
			name: "empty",
			cv:   types.CVData{},
			want: []string{
				"Full name is required",
				"At least one contact method (email or phone) is required",
				"At least one work experience entry is required",
			},
		},
		{
			name: "phone is enough contact",
			cv: types.CVData{
				PersonalInfo: types.PersonalInfo{FullName: "A", Phone: "1"},
				Experience:   []types.Experience{{ID: "exp-0"}},
			},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.cv))
		})
	}
}
