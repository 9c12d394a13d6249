package pkg

import (
	"strings"
	"time"
)

// Urgency is the triage urgency tier assigned to a patient record.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// ParseUrgency normalises a caller-supplied urgency label. Unrecognised
// values collapse to UrgencyMedium rather than propagating arbitrary strings.
func ParseUrgency(s string) Urgency {
	switch Urgency(strings.ToLower(strings.TrimSpace(s))) {
	case UrgencyCritical:
		return UrgencyCritical
	case UrgencyHigh:
		return UrgencyHigh
	case UrgencyLow:
		return UrgencyLow
	default:
		return UrgencyMedium
	}
}

// Display returns the human-readable legend shown to clinic staff.
func (u Urgency) Display() string {
	switch u {
	case UrgencyCritical:
		return "CRITICAL - Immediate attention required"
	case UrgencyHigh:
		return "HIGH - Same day appointment needed"
	case UrgencyLow:
		return "LOW - Routine care, within 1-2 weeks"
	default:
		return "MEDIUM - Within 3-5 days"
	}
}

// Specialty is the department a patient is routed to.
type Specialty string

const (
	SpecialtyEmergency    Specialty = "emergency"
	SpecialtyCardiology   Specialty = "cardiology"
	SpecialtyDermatology  Specialty = "dermatology"
	SpecialtyOrthopedics  Specialty = "orthopedics"
	SpecialtyMentalHealth Specialty = "mental_health"
	SpecialtyPediatrics   Specialty = "pediatrics"
	SpecialtyGynecology   Specialty = "gynecology"
	SpecialtyGeneral      Specialty = "general"
)

// ParseSpecialty normalises a caller-supplied specialty label. Unrecognised
// values collapse to SpecialtyGeneral.
func ParseSpecialty(s string) Specialty {
	switch Specialty(strings.ToLower(strings.TrimSpace(s))) {
	case SpecialtyEmergency:
		return SpecialtyEmergency
	case SpecialtyCardiology:
		return SpecialtyCardiology
	case SpecialtyDermatology:
		return SpecialtyDermatology
	case SpecialtyOrthopedics:
		return SpecialtyOrthopedics
	case SpecialtyMentalHealth:
		return SpecialtyMentalHealth
	case SpecialtyPediatrics:
		return SpecialtyPediatrics
	case SpecialtyGynecology:
		return SpecialtyGynecology
	default:
		return SpecialtyGeneral
	}
}

// StatusPending is the lifecycle status assigned to every new patient record.
// Transitions belong to the external case-management process, not this service.
const StatusPending = "pending"

// PatientRecord is the persisted unit produced by one completed intake.
// Optional fields hold the empty string when the patient did not provide
// them; the schema relies on that, there is no NULL marker.
type PatientRecord struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	Age            string    `json:"age"`
	Gender         string    `json:"gender"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Insurance      string    `json:"insurance"`
	Symptoms       string    `json:"symptoms"`
	MedicalHistory string    `json:"medical_history"`
	Specialty      Specialty `json:"specialty"`
	Urgency        Urgency   `json:"urgency"`
	Status         string    `json:"status"`
}

// ExtractedFields holds the candidate structured fields pulled from a
// conversation transcript. It is transient: produced per message, folded
// into a PatientRecord by the coordinator, never persisted directly.
type ExtractedFields struct {
	Name           string `json:"name"`
	Age            string `json:"age"`
	Gender         string `json:"gender"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Insurance      string `json:"insurance"`
	Symptoms       string `json:"symptoms"`
	MedicalHistory string `json:"medical_history"`
}

// IntakeSession represents one patient conversation. It is keyed by a UUID.
type IntakeSession struct {
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	MessageCap int        `json:"message_cap"`
}

// MessageRole describes who authored a message.
type MessageRole string

const (
	RolePatient   MessageRole = "patient"
	RoleAssistant MessageRole = "assistant"
)

// Message represents one turn in an intake session.
type Message struct {
	ID        int64       `json:"id"`
	SessionID string      `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// Transcript renders a session's messages as the role-labelled text the
// extractor and classifiers consume. The transcript only ever grows; callers
// must not mutate dialogue state through it.
func Transcript(msgs []Message) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		if m.Role == RoleAssistant {
			b.WriteString("Assistant: ")
		} else {
			b.WriteString("Patient: ")
		}
		b.WriteString(m.Content)
	}
	return b.String()
}

// ChatRequest represents a patient message posted to a session.
type ChatRequest struct {
	Content string `json:"content"`
}

// ChatResponse contains the assistant's reply and whether the session has
// hit its message cap.
type ChatResponse struct {
	Reply  string `json:"reply"`
	Capped bool   `json:"capped"`
}

// CompleteRequest carries the fields the dialogue orchestrator collected
// explicitly. Non-empty values win over transcript extraction; specialty and
// urgency, when supplied, are normalised and skip classification.
type CompleteRequest struct {
	Fields    ExtractedFields `json:"fields"`
	Specialty string          `json:"specialty,omitempty"`
	Urgency   string          `json:"urgency,omitempty"`
}

// CompleteResponse is returned once an intake has been triaged and stored.
// Notification holds the dispatcher's human-readable outcome message.
type CompleteResponse struct {
	Record       PatientRecord `json:"record"`
	Notification string        `json:"notification"`
}
