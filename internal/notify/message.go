package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"clinic-intake/pkg"
)

// department holds the display attributes for a routed department's banner.
type department struct {
	Name  string
	Icon  string
	Color string
}

var departments = map[pkg.Specialty]department{
	pkg.SpecialtyEmergency:    {Name: "Emergency Department", Icon: "🚨", Color: "#dc2626"},
	pkg.SpecialtyCardiology:   {Name: "Cardiology Department", Icon: "❤️", Color: "#ef4444"},
	pkg.SpecialtyDermatology:  {Name: "Dermatology Department", Icon: "🔬", Color: "#06b6d4"},
	pkg.SpecialtyOrthopedics:  {Name: "Orthopedic Department", Icon: "🦴", Color: "#8b5cf6"},
	pkg.SpecialtyMentalHealth: {Name: "Mental Health Department", Icon: "🧠", Color: "#10b981"},
	pkg.SpecialtyPediatrics:   {Name: "Pediatrics Department", Icon: "👶", Color: "#f59e0b"},
	pkg.SpecialtyGynecology:   {Name: "Women's Health Department", Icon: "👩‍⚕️", Color: "#ec4899"},
	pkg.SpecialtyGeneral:      {Name: "General Practice", Icon: "👨‍⚕️", Color: "#6366f1"},
}

var urgencyColors = map[pkg.Urgency]string{
	pkg.UrgencyCritical: "#dc2626",
	pkg.UrgencyHigh:     "#ea580c",
	pkg.UrgencyMedium:   "#eab308",
	pkg.UrgencyLow:      "#16a34a",
}

var nextSteps = map[pkg.Urgency]string{
	pkg.UrgencyCritical: "🚨 IMMEDIATE ACTION REQUIRED - Contact patient immediately",
	pkg.UrgencyHigh:     "⚡ HIGH PRIORITY - Schedule same-day appointment",
	pkg.UrgencyMedium:   "📅 Schedule appointment within 3-5 days",
	pkg.UrgencyLow:      "📋 Routine scheduling (1-2 weeks)",
}

// AlertSubject builds the notification subject line. Only critical and high
// tiers carry an urgency marker prefix.
func AlertSubject(rec pkg.PatientRecord) string {
	prefix := ""
	switch rec.Urgency {
	case pkg.UrgencyCritical:
		prefix = "🔴 CRITICAL ALERT: "
	case pkg.UrgencyHigh:
		prefix = "🟠 HIGH PRIORITY: "
	}
	return fmt.Sprintf("%sNew Patient: %s → %s Dept", prefix, rec.Name, departmentTitle(rec.Specialty))
}

// departmentTitle renders a specialty label for the subject line,
// e.g. "mental_health" becomes "Mental Health".
func departmentTitle(s pkg.Specialty) string {
	parts := strings.Split(string(s), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

var alertTmpl = template.Must(template.New("alert").Parse(`<div style="font-family: Arial, sans-serif; max-width: 700px; margin: 0 auto; background: #f8fafc;">
  <div style="background: linear-gradient(135deg, #2c5aa0 0%, #1e3a8a 100%); color: white; padding: 2rem; text-align: center;">
    <h1 style="margin: 0; font-size: 1.8rem;">🏥 New Patient Alert</h1>
    <p style="margin: 0.5rem 0 0 0; opacity: 0.9;">Healthcare Intake System</p>
  </div>
  <div style="padding: 2rem; background: white;">
    <div style="background: {{.UrgencyColor}}; color: white; padding: 1rem; border-radius: 8px; text-align: center; margin-bottom: 2rem;">
      <h2 style="margin: 0; font-size: 1.2rem;">🚨 {{.UrgencyDisplay}}</h2>
    </div>
    <div style="border-left: 4px solid {{.Dept.Color}}; padding: 1.5rem; margin: 1.5rem 0;">
      <h3 style="color: {{.Dept.Color}}; margin-top: 0;">{{.Dept.Icon}} Routed to: {{.Dept.Name}}</h3>
    </div>
    <h3 style="color: #2c5aa0; border-bottom: 2px solid #e5e7eb; padding-bottom: 0.5rem;">Patient Information</h3>
    <div style="margin-bottom: 2rem;">
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>Age:</strong> {{.Age}}</p>
      <p><strong>Gender:</strong> {{.Gender}}</p>
      <p><strong>Phone:</strong> {{.Phone}}</p>
      <p><strong>Email:</strong> {{.Email}}</p>
      <p><strong>Insurance:</strong> {{.Insurance}}</p>
      <p><strong>Department:</strong> {{.DeptTitle}}</p>
      <p><strong>Priority:</strong> <span style="color: {{.UrgencyColor}}; font-weight: bold;">{{.UrgencyUpper}}</span></p>
    </div>
    <h3 style="color: #2c5aa0; border-bottom: 2px solid #e5e7eb; padding-bottom: 0.5rem;">Medical Information</h3>
    <div style="background: #f8fafc; padding: 1rem; border-radius: 8px; margin-bottom: 1rem;">
      <p><strong>Symptoms:</strong></p>
      <p style="padding: 0.5rem; background: white; border-left: 3px solid #2c5aa0;">{{.Symptoms}}</p>
      <p><strong>Medical History:</strong></p>
      <p style="padding: 0.5rem; background: white; border-left: 3px solid #2c5aa0;">{{.MedicalHistory}}</p>
    </div>
    <h3 style="color: #2c5aa0; border-bottom: 2px solid #e5e7eb; padding-bottom: 0.5rem;">Next Steps</h3>
    <div style="background: #fef3c7; border: 1px solid #fcd34d; border-radius: 8px; padding: 1rem;">
      <p style="color: #92400e; font-weight: bold;">{{.NextStep}}</p>
      <p style="color: #92400e;">• Review patient information and medical history</p>
      <p style="color: #92400e;">• Contact patient using provided contact information</p>
      <p style="color: #92400e;">• Verify insurance coverage before appointment</p>
      <p style="color: #92400e;">• Prepare {{.DeptLower}} consultation materials</p>
    </div>
    <div style="margin-top: 2rem; padding: 1rem; background: #f1f5f9; text-align: center;">
      <p style="margin: 0; color: #6b7280; font-size: 0.9rem;">
        <strong>Record created:</strong> {{.CreatedAt}}<br>
        <strong>System:</strong> Healthcare Intake System
      </p>
    </div>
  </div>
</div>`))

type alertData struct {
	UrgencyDisplay string
	UrgencyColor   string
	UrgencyUpper   string
	Dept           department
	DeptTitle      string
	DeptLower      string
	Name           string
	Age            string
	Gender         string
	Phone          string
	Email          string
	Insurance      string
	Symptoms       string
	MedicalHistory string
	NextStep       string
	CreatedAt      string
}

// AlertBody renders the HTML body of a department alert for one patient
// record: urgency banner, department banner, all patient fields (absent
// optionals shown as "Not provided"), and tier-specific next-step guidance.
func AlertBody(rec pkg.PatientRecord) string {
	dept, ok := departments[rec.Specialty]
	if !ok {
		dept = departments[pkg.SpecialtyGeneral]
	}
	color, ok := urgencyColors[rec.Urgency]
	if !ok {
		color = "#6b7280"
	}
	step, ok := nextSteps[rec.Urgency]
	if !ok {
		step = nextSteps[pkg.UrgencyMedium]
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	data := alertData{
		UrgencyDisplay: rec.Urgency.Display(),
		UrgencyColor:   color,
		UrgencyUpper:   strings.ToUpper(string(rec.Urgency)),
		Dept:           dept,
		DeptTitle:      departmentTitle(rec.Specialty),
		DeptLower:      strings.ToLower(dept.Name),
		Name:           rec.Name,
		Age:            orNotProvided(rec.Age),
		Gender:         orNotProvided(rec.Gender),
		Phone:          orNotProvided(rec.Phone),
		Email:          orNotProvided(rec.Email),
		Insurance:      orNotProvided(rec.Insurance),
		Symptoms:       orNotProvided(rec.Symptoms),
		MedicalHistory: orNotProvided(rec.MedicalHistory),
		NextStep:       step,
		CreatedAt:      createdAt.Format("2006-01-02 15:04:05"),
	}

	var buf bytes.Buffer
	if err := alertTmpl.Execute(&buf, data); err != nil {
		// plain-text fallback so the alert still carries the routing
		return fmt.Sprintf("New patient %s routed to %s with %s priority", rec.Name, dept.Name, rec.Urgency)
	}
	return buf.String()
}

func orNotProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}
