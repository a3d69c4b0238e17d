package normalize

import (
	"sort"

	"github.com/AnikS22/Scribe-checker/internal/model"
)

// canonicalFields is the fixed top-level shape of a clinical record. Any of
// these missing from the backend payload is defaulted and reported in
// RecordResult.Defaulted.
var canonicalFields = []string{
	"patient_info",
	"chief_complaint",
	"history_of_present_illness",
	"assessment",
	"plan",
	"pain_rating",
	"prior_treatments",
	"vital_signs",
	"past_medical_history",
	"social_history",
	"family_history",
	"review_of_systems",
	"exam_findings",
	"imaging_summary",
	"follow_up_instructions",
	"functional_limitations",
	"symptom_duration",
	"procedures_mentioned",
	"date",
}

// droppedFields are extraction-payload keys discarded at this boundary:
// the coding stage owns recommended_cpt_codes, so an extraction backend
// volunteering its own list is overruled here, before any merge happens.
var droppedFields = map[string]bool{
	"recommended_cpt_codes": true,
	"prompt":                true,
}

// RecordResult is the outcome of shaping a raw extraction payload.
type RecordResult struct {
	Record *model.ClinicalRecord

	// Defaulted lists canonical fields absent from the payload, sorted.
	Defaulted []string
	// Dropped lists payload keys removed by precedence rules, sorted.
	Dropped []string
	// PainParse tags how the pain_rating value was interpreted.
	PainParse PainParseOutcome
}

// Record shapes an untrusted extraction payload into a fully-formed
// ClinicalRecord. Missing canonical fields are defaulted (lenient mode);
// loose shapes are coerced (lists joined to comma-separated strings, nested
// objects rebuilt); unrecognized keys are preserved in Extra for the
// dictionary matcher's required-field checks.
func Record(raw map[string]any) *RecordResult {
	res := &RecordResult{Record: &model.ClinicalRecord{}}
	rec := res.Record

	for _, f := range canonicalFields {
		if _, ok := raw[f]; !ok {
			res.Defaulted = append(res.Defaulted, f)
		}
	}
	sort.Strings(res.Defaulted)

	rec.PatientInfo = patientInfo(raw["patient_info"])
	rec.PainRating, res.PainParse = PainRating(raw["pain_rating"])

	rec.ChiefComplaint = scalarString(raw["chief_complaint"])
	rec.HistoryOfPresentIllness = scalarString(raw["history_of_present_illness"])
	rec.Assessment = scalarString(raw["assessment"])
	rec.Plan = scalarString(raw["plan"])
	rec.PriorTreatments = scalarString(priorTreatments(raw))
	rec.VitalSigns = scalarString(raw["vital_signs"])
	rec.PastMedicalHistory = scalarString(raw["past_medical_history"])
	rec.SocialHistory = scalarString(raw["social_history"])
	rec.FamilyHistory = scalarString(raw["family_history"])
	rec.ReviewOfSystems = scalarString(raw["review_of_systems"])
	rec.ExamFindings = scalarString(raw["exam_findings"])
	rec.ImagingSummary = scalarString(raw["imaging_summary"])
	rec.FollowUpInstructions = scalarString(raw["follow_up_instructions"])
	rec.FunctionalLimitations = scalarString(raw["functional_limitations"])
	rec.SymptomDuration = scalarString(raw["symptom_duration"])
	rec.Date = ToISODate(scalarString(raw["date"]))
	rec.ProceduresMentioned = stringSlice(raw["procedures_mentioned"])

	known := make(map[string]bool, len(canonicalFields))
	for _, f := range canonicalFields {
		known[f] = true
	}

	rec.Extra = make(map[string]any)
	for k, v := range raw {
		switch {
		case droppedFields[k]:
			res.Dropped = append(res.Dropped, k)
		case !known[k]:
			rec.Extra[k] = v
		}
	}
	sort.Strings(res.Dropped)

	return res
}

// priorTreatments accepts both the canonical prior_treatments key and the
// older prior_treatment spelling some backends emit.
func priorTreatments(raw map[string]any) any {
	if v, ok := raw["prior_treatments"]; ok {
		return v
	}
	return raw["prior_treatment"]
}

// patientInfo coerces non-object shapes to the default patient block.
func patientInfo(v any) model.PatientInfo {
	m, ok := v.(map[string]any)
	if !ok {
		return model.PatientInfo{}
	}
	return model.PatientInfo{
		Age:           scalarString(m["age"]),
		Sex:           scalarString(m["sex"]),
		VisitDate:     ToISODate(scalarString(m["visit_date"])),
		VisitLocation: scalarString(m["visit_location"]),
	}
}

// QPPMeasures coerces an extraction-payload qpp_measures value into typed
// measures. Entries missing a measure_id are skipped.
func QPPMeasures(v any) []model.QPPMeasure {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]model.QPPMeasure, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		q := model.QPPMeasure{
			MeasureID: scalarString(m["measure_id"]),
			Title:     scalarString(m["title"]),
			Status:    scalarString(m["status"]),
		}
		if q.MeasureID == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}
