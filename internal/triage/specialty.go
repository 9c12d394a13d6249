package triage

import (
	"strconv"
	"strings"

	"clinic-intake/pkg"
)

// specialtyRule pairs a department with its keyword list. Rules are checked
// in declaration order and the first match wins, so a phrase that appears in
// two lists ("chest pain" is in both emergency and cardiology) always
// resolves to the earlier department. The overlap is deliberate — emergency
// must win — and is kept as-is pending clinical review.
type specialtyRule struct {
	specialty pkg.Specialty
	keywords  []string
}

var specialtyRules = []specialtyRule{
	{pkg.SpecialtyEmergency, []string{
		"chest pain", "heart attack", "stroke", "bleeding", "unconscious",
		"difficulty breathing", "severe pain", "poisoning", "overdose",
		"suicide", "severe injury",
	}},
	{pkg.SpecialtyCardiology, []string{
		"heart", "cardiac", "chest pain", "palpitations", "blood pressure",
		"cholesterol", "arrhythmia", "angina",
	}},
	{pkg.SpecialtyDermatology, []string{
		"skin", "rash", "acne", "mole", "eczema", "psoriasis",
		"dermatitis", "itching", "burning skin",
	}},
	{pkg.SpecialtyOrthopedics, []string{
		"bone", "joint", "back pain", "knee", "shoulder", "hip",
		"fracture", "sprain", "arthritis", "muscle pain",
	}},
	{pkg.SpecialtyMentalHealth, []string{
		"depression", "anxiety", "stress", "panic", "mental health",
		"counseling", "therapy", "mood", "psychiatric",
	}},
}

var gynecologyKeywords = []string{
	"pregnancy", "menstrual", "gynecological", "contraception",
	"pap smear", "mammogram", "breast",
}

// ClassifySpecialty routes symptom text (and optionally age) to one of the
// eight departments. Symptom keywords take priority over the pediatric age
// rule: an emergency symptom in a minor still routes to emergency. Empty
// symptoms short-circuit to general.
func ClassifySpecialty(symptoms, age string) pkg.Specialty {
	if symptoms == "" {
		return pkg.SpecialtyGeneral
	}

	lower := strings.ToLower(symptoms)
	for _, rule := range specialtyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.specialty
			}
		}
	}

	if isMinor(age) {
		return pkg.SpecialtyPediatrics
	}

	for _, kw := range gynecologyKeywords {
		if strings.Contains(lower, kw) {
			return pkg.SpecialtyGynecology
		}
	}

	return pkg.SpecialtyGeneral
}

// isMinor reports whether age parses as a non-negative integer below 18.
func isMinor(age string) bool {
	if age == "" {
		return false
	}
	n, err := strconv.Atoi(age)
	return err == nil && n >= 0 && n < 18
}
