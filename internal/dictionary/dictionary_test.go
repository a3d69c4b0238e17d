package dictionary

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/AnikS22/Scribe-checker/internal/model"
)

func TestLoad_MissingFileFallsBackToBuiltin(t *testing.T) {
	d, src, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if src != SourceBuiltin {
		t.Errorf("source = %s, want builtin", src)
	}
	if _, ok := d["lumbar mri"]; !ok {
		t.Error("builtin table missing lumbar mri")
	}
}

func TestLoad_EmptyPathUsesBuiltinWithoutError(t *testing.T) {
	d, src, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != SourceBuiltin || len(d) != 3 {
		t.Errorf("got source %s with %d entries", src, len(d))
	}
}

func TestLoad_FileOverridesBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.json")
	body := `{"knee mri": {"cpt": "73721", "lcd": "L36556", "required_fields": ["exam_findings"]}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	d, src, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src != SourceFile {
		t.Errorf("source = %s, want file", src)
	}
	want := Entry{CPT: "73721", LCD: "L36556", RequiredFields: []string{"exam_findings"}}
	if got := d["knee mri"]; !reflect.DeepEqual(got, want) {
		t.Errorf("entry = %+v, want %+v", got, want)
	}
	if _, ok := d["lumbar mri"]; ok {
		t.Error("file load should replace the builtin table, not merge it")
	}
}

func TestLoad_MalformedAndEmptyFilesFallBack(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"bad.json":   `{"not closed`,
		"empty.json": `{}`,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		d, src, err := Load(path)
		if err == nil {
			t.Errorf("%s: expected an error", name)
		}
		if src != SourceBuiltin || len(d) != 3 {
			t.Errorf("%s: got source %s with %d entries", name, src, len(d))
		}
	}
}

func TestMatch_PhysicalTherapyWithFullEvidence(t *testing.T) {
	m := NewMatcher(Default())
	rec := &model.ClinicalRecord{
		Plan:                  "start physical therapy twice weekly",
		Assessment:            "lumbar strain",
		PriorTreatments:       "NSAIDs",
		FunctionalLimitations: "cannot sit longer than 20 minutes",
	}

	res := m.Match(rec)
	if !reflect.DeepEqual(res.CPTSuggestions, []string{"97110"}) {
		t.Errorf("cpt = %v", res.CPTSuggestions)
	}
	if !reflect.DeepEqual(res.LCDCodes, []string{"L33611"}) {
		t.Errorf("lcd = %v", res.LCDCodes)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	entry, ok := m.Entry("physical therapy")
	if !ok || entry.CPT != "97110" {
		t.Errorf("entry lookup = %+v, %v", entry, ok)
	}
	if _, ok := m.Entry("arthroscopy"); ok {
		t.Error("unknown phrase resolved")
	}
}

func TestMatch_WarnsOnMissingEvidence(t *testing.T) {
	m := NewMatcher(Default())
	rec := &model.ClinicalRecord{
		Plan:            "start physical therapy",
		PriorTreatments: "NSAIDs",
	}

	res := m.Match(rec)
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	want := "Missing required fields for physical therapy (CPT 97110, LCD L33611): functional_limitations, assessment"
	if res.Warnings[0] != want {
		t.Errorf("warning = %q, want %q", res.Warnings[0], want)
	}
	// The match and its codes still stand; a warning never suppresses them.
	if !reflect.DeepEqual(res.CPTSuggestions, []string{"97110"}) {
		t.Errorf("cpt = %v", res.CPTSuggestions)
	}
}

func TestMatch_MultipleProceduresAcrossFields(t *testing.T) {
	m := NewMatcher(Default())
	rec := &model.ClinicalRecord{
		ProceduresMentioned: []string{"Lumbar MRI without contrast"},
		Plan:                "continue physical therapy",
	}

	res := m.Match(rec)
	if !reflect.DeepEqual(res.CPTSuggestions, []string{"72148", "97110"}) {
		t.Errorf("cpt = %v", res.CPTSuggestions)
	}
	if !reflect.DeepEqual(res.LCDCodes, []string{"L33611", "L34220"}) {
		t.Errorf("lcd = %v", res.LCDCodes)
	}
	if len(res.Matches) != 2 {
		t.Errorf("matches = %+v", res.Matches)
	}
}

func TestMatch_SubstringContainmentOverMatches(t *testing.T) {
	// Containment is deliberate: a short dictionary key matches inside any
	// longer mention, even an unrelated one.
	m := NewMatcher(Dictionary{"mri": {CPT: "70551", LCD: "L34000"}})
	rec := &model.ClinicalRecord{
		ProceduresMentioned: []string{"cardiac mri discussed but deferred"},
	}
	res := m.Match(rec)
	if !reflect.DeepEqual(res.CPTSuggestions, []string{"70551"}) {
		t.Errorf("cpt = %v", res.CPTSuggestions)
	}
}

func TestMatch_Idempotent(t *testing.T) {
	m := NewMatcher(Default())
	rec := &model.ClinicalRecord{
		Plan:                "order lumbar mri, start physical therapy",
		ProceduresMentioned: []string{"facet joint injection"},
	}
	first := m.Match(rec)
	second := m.Match(rec)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("match is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestMatch_NoMentionsNoCodes(t *testing.T) {
	m := NewMatcher(Default())
	res := m.Match(&model.ClinicalRecord{ChiefComplaint: "headache"})
	if len(res.CPTSuggestions) != 0 || len(res.Warnings) != 0 || len(res.Matches) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}
