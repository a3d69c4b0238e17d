package model

// FinalReport is the merged output of a full pipeline run: the structured
// clinical record overlaid with diagnosis codes, billing candidates, and
// policy validation results.
//
// RecommendedCPTCodes always originates from the coding stage; the extraction
// stage's own candidate list, if it emitted one, is discarded before the
// merge. Prompt is the transcript actually sent to the extraction backend
// (after redaction, when enabled), retained for audit.
type FinalReport struct {
	ClinicalRecord

	ICDCodes            []string        `json:"icd_codes"`
	RecommendedCPTCodes []CandidateCode `json:"recommended_cpt_codes"`
	LCDValidation       []LCDValidation `json:"lcd_validation"`
	QPPMeasures         []QPPMeasure    `json:"qpp_measures"`
	Prompt              string          `json:"prompt"`
}
