// Package triage assigns an urgency tier and a target specialty to reported
// symptoms, and coordinates persisting the resulting patient record and
// alerting the routed department. It is a routing heuristic over fixed
// keyword lists, not a diagnostic tool.
package triage

import (
	"strings"

	"clinic-intake/pkg"
)

// criticalKeywords are life-threatening indicators. Any substring match
// classifies the symptoms as critical.
var criticalKeywords = []string{
	"chest pain", "heart attack", "stroke", "bleeding", "unconscious",
	"difficulty breathing", "severe pain", "poisoning", "overdose",
	"suicide", "severe injury", "broken bone", "head injury",
}

// highKeywords indicate same-day care.
var highKeywords = []string{
	"fever", "infection", "rash", "severe headache", "nausea",
	"vomiting", "dizzy", "swelling", "shortness of breath",
}

// ClassifyUrgency maps symptom text to an urgency tier. Empty or
// unrecognised symptoms default to medium; the classifier never escalates
// or de-escalates without a keyword hit, and never returns low on its own.
func ClassifyUrgency(symptoms string) pkg.Urgency {
	if symptoms == "" {
		return pkg.UrgencyMedium
	}

	lower := strings.ToLower(symptoms)
	for _, kw := range criticalKeywords {
		if strings.Contains(lower, kw) {
			return pkg.UrgencyCritical
		}
	}
	for _, kw := range highKeywords {
		if strings.Contains(lower, kw) {
			return pkg.UrgencyHigh
		}
	}
	return pkg.UrgencyMedium
}
