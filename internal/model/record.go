package model

import "strings"

// PatientInfo holds the demographic fields extracted from a transcript.
// Every field is free text; empty means the transcript never said.
type PatientInfo struct {
	Age           string `json:"age,omitempty"`
	Sex           string `json:"sex,omitempty"`
	VisitDate     string `json:"visit_date,omitempty"` // ISO 8601 date when parseable
	VisitLocation string `json:"visit_location,omitempty"`
}

// PainRating is the patient-reported pain level (0-10) and its location.
type PainRating struct {
	Level    string `json:"level,omitempty"`
	Location string `json:"location,omitempty"`
}

// ClinicalRecord is the canonical intermediate representation produced by the
// extraction stage. Every field below is always present after normalization,
// defaulted to its zero value when the backend omitted it; the record is never
// partially shaped. String fields hold free text or "" when the source
// transcript contains no relevant statement.
type ClinicalRecord struct {
	PatientInfo PatientInfo `json:"patient_info"`
	PainRating  PainRating  `json:"pain_rating"`

	ChiefComplaint          string `json:"chief_complaint,omitempty"`
	HistoryOfPresentIllness string `json:"history_of_present_illness,omitempty"`
	Assessment              string `json:"assessment,omitempty"`
	Plan                    string `json:"plan,omitempty"`
	PriorTreatments         string `json:"prior_treatments,omitempty"`
	VitalSigns              string `json:"vital_signs,omitempty"`
	PastMedicalHistory      string `json:"past_medical_history,omitempty"`
	SocialHistory           string `json:"social_history,omitempty"`
	FamilyHistory           string `json:"family_history,omitempty"`
	ReviewOfSystems         string `json:"review_of_systems,omitempty"`
	ExamFindings            string `json:"exam_findings,omitempty"`
	ImagingSummary          string `json:"imaging_summary,omitempty"`
	FollowUpInstructions    string `json:"follow_up_instructions,omitempty"`
	FunctionalLimitations   string `json:"functional_limitations,omitempty"`
	SymptomDuration         string `json:"symptom_duration,omitempty"`
	Date                    string `json:"date,omitempty"`

	// ProceduresMentioned lists procedures named anywhere in the transcript,
	// used alongside Plan by the code dictionary matcher.
	ProceduresMentioned []string `json:"procedures_mentioned,omitempty"`

	// Extra preserves extraction fields outside the canonical schema
	// (e.g. severity, trigger_point_location) so dictionary required_fields
	// can still be evaluated against them.
	Extra map[string]any `json:"-"`
}

// Field resolves a plain or dotted field name ("pain_rating.level",
// "patient_info.age") against the record. Canonical fields are looked up on
// the struct; anything else falls through to Extra. ok is false when the name
// is unknown entirely.
func (r *ClinicalRecord) Field(name string) (any, bool) {
	if parent, child, found := strings.Cut(name, "."); found {
		return r.nestedField(parent, child)
	}

	switch name {
	case "patient_info":
		return r.PatientInfo, true
	case "pain_rating":
		return r.PainRating, true
	case "chief_complaint":
		return r.ChiefComplaint, true
	case "history_of_present_illness":
		return r.HistoryOfPresentIllness, true
	case "assessment":
		return r.Assessment, true
	case "plan":
		return r.Plan, true
	case "prior_treatment", "prior_treatments":
		return r.PriorTreatments, true
	case "vital_signs":
		return r.VitalSigns, true
	case "past_medical_history":
		return r.PastMedicalHistory, true
	case "social_history":
		return r.SocialHistory, true
	case "family_history":
		return r.FamilyHistory, true
	case "review_of_systems":
		return r.ReviewOfSystems, true
	case "exam_findings":
		return r.ExamFindings, true
	case "imaging_summary":
		return r.ImagingSummary, true
	case "follow_up_instructions":
		return r.FollowUpInstructions, true
	case "functional_limitations":
		return r.FunctionalLimitations, true
	case "symptom_duration":
		return r.SymptomDuration, true
	case "date":
		return r.Date, true
	case "procedures_mentioned":
		return r.ProceduresMentioned, true
	}

	v, ok := r.Extra[name]
	return v, ok
}

func (r *ClinicalRecord) nestedField(parent, child string) (any, bool) {
	switch parent {
	case "patient_info":
		switch child {
		case "age":
			return r.PatientInfo.Age, true
		case "sex":
			return r.PatientInfo.Sex, true
		case "visit_date":
			return r.PatientInfo.VisitDate, true
		case "visit_location":
			return r.PatientInfo.VisitLocation, true
		}
		return nil, false
	case "pain_rating":
		switch child {
		case "level":
			return r.PainRating.Level, true
		case "location":
			return r.PainRating.Location, true
		}
		return nil, false
	}

	// Dotted paths into non-canonical objects, e.g.
	// objective_findings.neurological_deficits.
	obj, ok := r.Extra[parent]
	if !ok {
		return nil, false
	}
	m, ok := obj.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[child]
	return v, ok
}

// FieldEmpty reports whether the named field is missing for billing-evidence
// purposes: unknown names, empty strings, empty lists, and nil all count as
// missing. Multi-valued fields are judged by length.
func (r *ClinicalRecord) FieldEmpty(name string) bool {
	v, ok := r.Field(name)
	if !ok || v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case PainRating:
		return val.Level == "" && val.Location == ""
	case PatientInfo:
		return val == PatientInfo{}
	case bool:
		return !val
	case float64:
		return val == 0
	}
	return false
}
