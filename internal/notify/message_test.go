package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clinic-intake/pkg"
)

func record(urgency pkg.Urgency, specialty pkg.Specialty) pkg.PatientRecord {
	return pkg.PatientRecord{
		ID:        7,
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Name:      "Maria",
		Age:       "34",
		Symptoms:  "severe chest pain",
		Specialty: specialty,
		Urgency:   urgency,
		Status:    pkg.StatusPending,
	}
}

func TestAlertSubject(t *testing.T) {
	t.Run("critical marker", func(t *testing.T) {
		got := AlertSubject(record(pkg.UrgencyCritical, pkg.SpecialtyEmergency))
		assert.Equal(t, "🔴 CRITICAL ALERT: New Patient: Maria → Emergency Dept", got)
	})

	t.Run("high marker", func(t *testing.T) {
		got := AlertSubject(record(pkg.UrgencyHigh, pkg.SpecialtyDermatology))
		assert.Equal(t, "🟠 HIGH PRIORITY: New Patient: Maria → Dermatology Dept", got)
	})

	t.Run("no marker for medium or low", func(t *testing.T) {
		assert.Equal(t, "New Patient: Maria → General Dept",
			AlertSubject(record(pkg.UrgencyMedium, pkg.SpecialtyGeneral)))
		assert.Equal(t, "New Patient: Maria → Mental Health Dept",
			AlertSubject(record(pkg.UrgencyLow, pkg.SpecialtyMentalHealth)))
	})
}

func TestAlertBody(t *testing.T) {
	t.Run("contains department banner and next steps", func(t *testing.T) {
		body := AlertBody(record(pkg.UrgencyCritical, pkg.SpecialtyEmergency))
		assert.Contains(t, body, "Emergency Department")
		assert.Contains(t, body, "CRITICAL - Immediate attention required")
		assert.Contains(t, body, "IMMEDIATE ACTION REQUIRED")
		assert.Contains(t, body, "Maria")
		assert.Contains(t, body, "severe chest pain")
		assert.Contains(t, body, "2026-03-14 09:30:00")
	})

	t.Run("absent optionals render as Not provided", func(t *testing.T) {
		body := AlertBody(record(pkg.UrgencyMedium, pkg.SpecialtyGeneral))
		// Gender, phone, email, insurance, history are empty in the fixture.
		assert.GreaterOrEqual(t, strings.Count(body, "Not provided"), 5)
	})

	t.Run("tier-specific guidance", func(t *testing.T) {
		assert.Contains(t, AlertBody(record(pkg.UrgencyHigh, pkg.SpecialtyDermatology)),
			"Schedule same-day appointment")
		assert.Contains(t, AlertBody(record(pkg.UrgencyMedium, pkg.SpecialtyGeneral)),
			"within 3-5 days")
		assert.Contains(t, AlertBody(record(pkg.UrgencyLow, pkg.SpecialtyGeneral)),
			"Routine scheduling")
	})

	t.Run("unknown labels fall back to general and medium styling", func(t *testing.T) {
		rec := record("", "")
		body := AlertBody(rec)
		assert.Contains(t, body, "General Practice")
	})
}

func TestDepartmentTitle(t *testing.T) {
	assert.Equal(t, "Mental Health", departmentTitle(pkg.SpecialtyMentalHealth))
	assert.Equal(t, "Cardiology", departmentTitle(pkg.SpecialtyCardiology))
}
