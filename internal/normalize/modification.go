package normalize

import (
	"cvwizard/internal/types"
)

const (
	defaultInvalidMessage = "Could not process this request. Please provide a specific modification."
	defaultAppliedMessage = "Changes applied successfully."
)

// Modification converts a raw model reply into a ModificationResult. A failed
// or invalid reply never carries modified documents. A successful reply keeps
// every document the model sent, relabels its type to match, and falls back
// to the originals for every field the model omitted; the originals are never
// modified.
func Modification(raw types.Raw, original types.CVData, originalLetter *types.CoverLetter) (types.ModificationResult, Report) {
	var report Report
	report.Coerced = shapeViolations("modification", raw)

	success := boolean(raw["success"])
	typ := types.ModificationType(str(raw["type"]))

	if !success || typ == types.ModificationInvalid {
		return types.ModificationResult{
			Success: false,
			Type:    types.ModificationInvalid,
			Message: strOr(raw["message"], defaultInvalidMessage),
			Changes: []string{},
		}, report
	}

	if !typ.Valid() {
		typ = types.ModificationResume
	}

	result := types.ModificationResult{
		Success: true,
		Type:    typ,
		Message: strOr(raw["message"], defaultAppliedMessage),
		Changes: stringList(raw["changes"]),
	}

	if m, ok := raw["modifiedResume"].(map[string]any); ok {
		cv := mergeResume(m, original)
		result.ModifiedResume = &cv
	}
	if m, ok := raw["modifiedCoverLetter"].(map[string]any); ok {
		cl := mergeCoverLetter(m, originalLetter)
		result.ModifiedCoverLetter = &cl
	}
	if carried := carriedType(result); carried != "" && carried != typ {
		result.Type = carried
		report.Coerced = append(report.Coerced, "modification.type")
	}
	return result, report
}

// carriedType names the documents a result actually holds, or "" when it
// holds none.
func carriedType(r types.ModificationResult) types.ModificationType {
	switch {
	case r.ModifiedResume != nil && r.ModifiedCoverLetter != nil:
		return types.ModificationBoth
	case r.ModifiedResume != nil:
		return types.ModificationResume
	case r.ModifiedCoverLetter != nil:
		return types.ModificationCoverLetter
	}
	return ""
}

// mergeResume overlays the fields present in m onto a copy of original.
func mergeResume(m types.Raw, original types.CVData) types.CVData {
	out := original.Clone()

	if pi, ok := m["personalInfo"].(map[string]any); ok {
		fields := []struct {
			key string
			dst *string
		}{
			{"fullName", &out.PersonalInfo.FullName},
			{"title", &out.PersonalInfo.Title},
			{"email", &out.PersonalInfo.Email},
			{"phone", &out.PersonalInfo.Phone},
			{"location", &out.PersonalInfo.Location},
			{"website", &out.PersonalInfo.Website},
			{"linkedin", &out.PersonalInfo.LinkedIn},
			{"github", &out.PersonalInfo.GitHub},
			{"twitter", &out.PersonalInfo.Twitter},
			{"portfolio", &out.PersonalInfo.Portfolio},
			{"bio", &out.PersonalInfo.Bio},
		}
		for _, f := range fields {
			if v, present := pi[f.key]; present {
				if s, isStr := v.(string); isStr {
					*f.dst = s
				}
			}
		}
	}

	if _, ok := list(m["experience"]); ok {
		out.Experience = experience(m["experience"], 0)
	}
	if _, ok := list(m["education"]); ok {
		out.Education = education(m["education"], 0)
	}
	if _, ok := list(m["skills"]); ok {
		out.Skills = skills(m["skills"], false)
	}
	if _, ok := list(m["projects"]); ok {
		out.Projects = projects(m["projects"], 0)
	}
	if _, ok := list(m["certifications"]); ok {
		out.Certifications = certifications(m["certifications"], 0)
	}
	if _, ok := list(m["languages"]); ok {
		out.Languages = languages(m["languages"])
	}
	return out
}

func mergeCoverLetter(m types.Raw, original *types.CoverLetter) types.CoverLetter {
	base := types.EmptyCoverLetter()
	if original != nil {
		base = *original
	}
	if s, ok := m["content"].(string); ok {
		base.Content = s
	}
	if s, ok := m["salutation"].(string); ok && s != "" {
		base.Salutation = s
	}
	if s, ok := m["closing"].(string); ok && s != "" {
		base.Closing = s
	}
	return base
}
