package pipeline

import (
	"github.com/AnikS22/Scribe-checker/internal/model"
	"github.com/AnikS22/Scribe-checker/internal/normalize"
)

// merge assembles the final report: the clinical record overlaid with the
// coding and validation results. Precedence is explicit — the coding stage
// owns recommended_cpt_codes (the extraction stage's own list was discarded
// at the normalization boundary), and prompt is always the transcript
// actually sent to extraction, never the backend echo.
func merge(rr *normalize.RecordResult, prompt string, coding *codingResult, verdicts []model.LCDValidation) *model.FinalReport {
	report := &model.FinalReport{
		ClinicalRecord:      *rr.Record,
		ICDCodes:            dedupeOrdered(coding.ICDCodes),
		RecommendedCPTCodes: applyVerdicts(coding.Candidates, verdicts),
		LCDValidation:       verdicts,
		QPPMeasures:         normalize.QPPMeasures(rr.Record.Extra["qpp_measures"]),
		Prompt:              prompt,
	}

	if report.LCDValidation == nil {
		report.LCDValidation = []model.LCDValidation{}
	}
	if report.QPPMeasures == nil {
		report.QPPMeasures = []model.QPPMeasure{}
	}
	return report
}

// dedupeOrdered keeps the first appearance of each code. Comparison is
// case-sensitive; downstream consumers treat the result as a set.
func dedupeOrdered(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// applyVerdicts folds validation results back into the matching candidates.
// Candidates without a verdict stay Not Evaluated.
func applyVerdicts(cands []model.CandidateCode, verdicts []model.LCDValidation) []model.CandidateCode {
	if cands == nil {
		return []model.CandidateCode{}
	}
	byCode := make(map[string]model.LCDValidation, len(verdicts))
	for _, v := range verdicts {
		byCode[v.CPTCode] = v
	}

	out := make([]model.CandidateCode, len(cands))
	for i, c := range cands {
		if v, ok := byCode[c.Code]; ok {
			c.LCDStatus = v.Status
			if len(v.Requirements) > 0 {
				c.LCDRequirements = v.Requirements
			}
			if c.LCDCode == "" {
				c.LCDCode = v.LCDCode
			}
		}
		out[i] = c
	}
	return out
}
