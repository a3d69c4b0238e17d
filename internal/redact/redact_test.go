package redact

import (
	"strings"
	"testing"
)

func TestRedact(t *testing.T) {
	s := NewScrubber()
	cases := []struct {
		name, in, want string
	}{
		{"ssn", "SSN is 123-45-6789.", "SSN is [REDACTED-SSN]."},
		{"phone", "call 555-201-3344 to confirm", "call [REDACTED-PHONE] to confirm"},
		{"phone with dots", "reach me at 305.555.0188", "reach me at [REDACTED-PHONE]"},
		{"email", "send results to jane.doe@example.org please", "send results to [REDACTED-EMAIL] please"},
		{"mrn", "MRN: A48293 on file", "[REDACTED-MRN] on file"},
		{"dob", "DOB: 4/12/1971, presents today", "[REDACTED-DOB], presents today"},
		{"clean text untouched", "patient reports 7/10 low back pain", "patient reports 7/10 low back pain"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := s.Redact(c.in); got != c.want {
				t.Errorf("Redact(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestRedact_MultipleIdentifiersInOnePass(t *testing.T) {
	s := NewScrubber()
	in := "John Smith, SSN 987-65-4321, DOB: 01/02/1960, email john@x.io, cell 555-867-5309."
	got := s.Redact(in)
	for _, leaked := range []string{"987-65-4321", "01/02/1960", "john@x.io", "555-867-5309"} {
		if strings.Contains(got, leaked) {
			t.Errorf("identifier %q survived: %s", leaked, got)
		}
	}
}
