// Package redact provides a best-effort scrub of obvious personal
// identifiers from transcript text before it leaves the process. It is a
// pre-filter, not a PHI-detection guarantee.
package redact

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

var rules = []rule{
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[REDACTED-SSN]"},
	{regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`), "[REDACTED-PHONE]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED-EMAIL]"},
	{regexp.MustCompile(`(?i)\bMRN[:#\s]\s*[A-Z0-9-]{4,}\b`), "[REDACTED-MRN]"},
	{regexp.MustCompile(`(?i)\b(?:DOB|date of birth)[:\s]+\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`), "[REDACTED-DOB]"},
}

// Scrubber applies the redaction rules to text.
type Scrubber struct{}

// NewScrubber returns a Scrubber.
func NewScrubber() *Scrubber {
	return &Scrubber{}
}

// Redact replaces matches of every rule with a typed placeholder.
// Unmatched text passes through untouched.
func (s *Scrubber) Redact(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}
