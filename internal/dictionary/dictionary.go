// Package dictionary maps free-text procedure mentions to CPT billing codes
// and the LCD coverage policies that govern them.
package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
)

// Entry describes the billing context for one canonical procedure phrase.
type Entry struct {
	CPT            string   `json:"cpt"`
	LCD            string   `json:"lcd"`
	RequiredFields []string `json:"required_fields"`
}

// Dictionary maps a canonical procedure phrase (lowercase) to its entry.
type Dictionary map[string]Entry

// Source tags where a loaded dictionary came from, so callers can log (and
// tests can assert) whether the fallback path was taken.
type Source string

const (
	SourceFile    Source = "file"
	SourceBuiltin Source = "builtin"
)

// Default returns the built-in fallback table used when the configured
// dictionary file is missing or unreadable.
func Default() Dictionary {
	return Dictionary{
		"lumbar mri": {
			CPT: "72148",
			LCD: "L34220",
			RequiredFields: []string{
				"severity",
				"duration",
				"functional_limitations",
				"neurologic_deficits",
			},
		},
		"facet joint injection": {
			CPT: "64493",
			LCD: "L34993",
			RequiredFields: []string{
				"pain_rating",
				"prior_treatment",
				"trigger_point_location",
			},
		},
		"physical therapy": {
			CPT: "97110",
			LCD: "L33611",
			RequiredFields: []string{
				"functional_limitations",
				"prior_treatment",
				"assessment",
			},
		},
	}
}

// Load reads the dictionary JSON file at path. On any failure it returns the
// built-in default table tagged SourceBuiltin together with the cause, so the
// service stays available with reduced coverage rather than refusing to start.
func Load(path string) (Dictionary, Source, error) {
	if path == "" {
		return Default(), SourceBuiltin, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), SourceBuiltin, fmt.Errorf("read dictionary: %w", err)
	}

	var d Dictionary
	if err := json.Unmarshal(data, &d); err != nil {
		return Default(), SourceBuiltin, fmt.Errorf("parse dictionary: %w", err)
	}
	if len(d) == 0 {
		return Default(), SourceBuiltin, fmt.Errorf("dictionary %s is empty", path)
	}
	return d, SourceFile, nil
}
