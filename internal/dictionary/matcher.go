package dictionary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AnikS22/Scribe-checker/internal/model"
)

// ProcedureMatch records one dictionary phrase found in the record, with any
// required evidence fields the record does not yet contain. Matching and
// "fully justified" are independent: a match with missing fields still
// contributes its codes.
type ProcedureMatch struct {
	Phrase        string
	CPT           string
	LCD           string
	MissingFields []string
}

// MatchResult holds the codes and evidence warnings produced by one match
// pass over a clinical record.
type MatchResult struct {
	// CPTSuggestions and LCDCodes are sorted and de-duplicated.
	CPTSuggestions []string
	LCDCodes       []string
	// Warnings lists, one line per matched-but-incomplete procedure, the
	// record fields still needed to justify the procedure under its LCD.
	Warnings []string
	// Matches lists every matched phrase in dictionary order.
	Matches []ProcedureMatch
}

// Matcher matches procedure mentions in a record against the dictionary.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	dict Dictionary
}

// NewMatcher builds a Matcher over dict.
func NewMatcher(dict Dictionary) *Matcher {
	return &Matcher{dict: dict}
}

// Entry exposes the dictionary entry for a canonical procedure phrase.
func (m *Matcher) Entry(phrase string) (Entry, bool) {
	e, ok := m.dict[phrase]
	return e, ok
}

// Match tests every dictionary phrase for substring containment inside the
// record's candidate phrases (procedures_mentioned plus the plan text, case
// folded). Containment rather than exact match is deliberate: it catches
// phrasing variation at the cost of over-matching on short keys. A procedure
// can match and still produce a warning; matching and "fully justified" are
// independent outcomes.
func (m *Matcher) Match(rec *model.ClinicalRecord) MatchResult {
	candidates := candidatePhrases(rec)

	cpt := make(map[string]bool)
	lcd := make(map[string]bool)
	var warnings []string
	var matches []ProcedureMatch

	for _, phrase := range sortedPhrases(m.dict) {
		entry := m.dict[phrase]
		if !matchesAny(phrase, candidates) {
			continue
		}

		cpt[entry.CPT] = true
		lcd[entry.LCD] = true

		missing := missingFields(entry.RequiredFields, rec)
		matches = append(matches, ProcedureMatch{
			Phrase:        phrase,
			CPT:           entry.CPT,
			LCD:           entry.LCD,
			MissingFields: missing,
		})
		if len(missing) > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"Missing required fields for %s (CPT %s, LCD %s): %s",
				phrase, entry.CPT, entry.LCD, strings.Join(missing, ", ")))
		}
	}

	return MatchResult{
		CPTSuggestions: sortedKeys(cpt),
		LCDCodes:       sortedKeys(lcd),
		Warnings:       warnings,
		Matches:        matches,
	}
}

func candidatePhrases(rec *model.ClinicalRecord) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, p := range rec.ProceduresMentioned {
		add(p)
	}
	add(rec.Plan)
	return out
}

func matchesAny(phrase string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(c, phrase) {
			return true
		}
	}
	return false
}

// missingFields evaluates an entry's required evidence against the record:
// dotted paths resolve into nested objects, known multi-valued fields are
// judged by emptiness, and plain fields by falsiness.
func missingFields(required []string, rec *model.ClinicalRecord) []string {
	var missing []string
	for _, field := range required {
		if rec.FieldEmpty(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func sortedPhrases(d Dictionary) []string {
	out := make([]string, 0, len(d))
	for phrase := range d {
		out = append(out, phrase)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
