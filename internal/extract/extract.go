// Package extract pulls candidate structured fields out of a free-text
// intake transcript. Matching is pattern-based only; a field that matches
// nothing resolves to its default, never to an error.
package extract

import (
	"regexp"

	"clinic-intake/pkg"
)

// DefaultName is the sentinel used when no self-introduction is found.
const DefaultName = "Unknown"

// Name patterns are tried in order; the first capture wins. All of them
// capture the first word token after a self-introduction phrase.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)I'm\s+(\w+)`),
	regexp.MustCompile(`(?i)I am\s+(\w+)`),
	regexp.MustCompile(`(?i)name\s+is\s+(\w+)`),
	regexp.MustCompile(`(?i)this\s+is\s+(\w+)`),
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Phone patterns are tried in order: plain grouped ten digits, then a
// parenthesised area code.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}\b`),
}

// Extract parses the accumulated conversation text into candidate fields.
// Each field is matched independently against the same immutable input;
// a miss in one field never affects another.
func Extract(transcript string) pkg.ExtractedFields {
	fields := pkg.ExtractedFields{Name: DefaultName}
	if transcript == "" {
		return fields
	}

	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(transcript); m != nil {
			fields.Name = m[1]
			break
		}
	}

	if m := emailPattern.FindString(transcript); m != "" {
		fields.Email = m
	}

	for _, p := range phonePatterns {
		if m := p.FindString(transcript); m != "" {
			fields.Phone = m
			break
		}
	}

	return fields
}
