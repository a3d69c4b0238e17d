package model

// LCDStatus is the payer medical-necessity verdict for one candidate code.
type LCDStatus string

const (
	LCDMeets          LCDStatus = "Meets"
	LCDPartiallyMeets LCDStatus = "Partially Meets"
	LCDDoesNotMeet    LCDStatus = "Does Not Meet"
	LCDNotEvaluated   LCDStatus = "Not Evaluated"
)

// KnownLCDStatus reports whether s is one of the defined verdicts.
func KnownLCDStatus(s LCDStatus) bool {
	switch s {
	case LCDMeets, LCDPartiallyMeets, LCDDoesNotMeet, LCDNotEvaluated:
		return true
	}
	return false
}

// CandidateCode is a recommended CPT procedure code with its coverage-policy
// context. LCDCode should be set whenever RequiresLCD is true; the coding
// backend occasionally violates that, which is treated as a warning rather
// than a hard failure.
type CandidateCode struct {
	Code            string    `json:"code"`
	Description     string    `json:"description"`
	RequiresLCD     bool      `json:"requires_lcd"`
	LCDCode         string    `json:"lcd_code,omitempty"`
	LCDRequirements []string  `json:"lcd_requirements"`
	LCDStatus       LCDStatus `json:"lcd_status"`
}

// LCDValidation is the per-code outcome of the payer-policy validation stage.
type LCDValidation struct {
	CPTCode      string    `json:"cpt_code"`
	LCDCode      string    `json:"lcd_code,omitempty"`
	Requirements []string  `json:"requirements"`
	Status       LCDStatus `json:"status"`
}

// QPPMeasure is a quality-reporting-program metric carried through the
// pipeline unmodified. No validation beyond presence is defined.
type QPPMeasure struct {
	MeasureID string `json:"measure_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
}
