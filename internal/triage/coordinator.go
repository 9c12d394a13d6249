package triage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"clinic-intake/internal/extract"
	"clinic-intake/internal/notify"
	"clinic-intake/pkg"
)

// PatientStore is the slice of the repository the coordinator needs.
type PatientStore interface {
	InsertPatient(ctx context.Context, rec *pkg.PatientRecord) (int64, error)
}

// Coordinator runs one completed intake end to end: extraction,
// classification, persistence, and a single notification attempt.
type Coordinator struct {
	store      PatientStore
	dispatcher notify.Dispatcher
	adminEmail string
	log        zerolog.Logger
}

func NewCoordinator(store PatientStore, dispatcher notify.Dispatcher, adminEmail string, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:      store,
		dispatcher: dispatcher,
		adminEmail: adminEmail,
		log:        logger,
	}
}

// Intake is one completed conversation handed over by the dialogue
// orchestrator. Fields the orchestrator collected explicitly win over
// transcript extraction; Specialty and Urgency, when supplied, are
// normalised at the boundary instead of classified.
type Intake struct {
	Transcript string
	Fields     pkg.ExtractedFields
	Specialty  string
	Urgency    string
}

// Process turns an intake into a persisted patient record and requests one
// department alert. Insert and dispatch are sequential and independent: a
// dispatch failure is reported in the returned outcome string and logged,
// but the record stays persisted and is never retried here.
func (c *Coordinator) Process(ctx context.Context, in Intake) (*pkg.PatientRecord, string, error) {
	fields := extract.Extract(in.Transcript)
	mergeFields(&fields, in.Fields)

	var urgency pkg.Urgency
	if in.Urgency != "" {
		urgency = pkg.ParseUrgency(in.Urgency)
	} else {
		urgency = ClassifyUrgency(fields.Symptoms)
	}

	var specialty pkg.Specialty
	if in.Specialty != "" {
		specialty = pkg.ParseSpecialty(in.Specialty)
	} else {
		specialty = ClassifySpecialty(fields.Symptoms, fields.Age)
	}

	rec := &pkg.PatientRecord{
		Name:           fields.Name,
		Age:            fields.Age,
		Gender:         fields.Gender,
		Phone:          fields.Phone,
		Email:          fields.Email,
		Insurance:      fields.Insurance,
		Symptoms:       fields.Symptoms,
		MedicalHistory: fields.MedicalHistory,
		Specialty:      specialty,
		Urgency:        urgency,
		Status:         pkg.StatusPending,
	}

	id, err := c.store.InsertPatient(ctx, rec)
	if err != nil {
		c.log.Error().Err(err).Str("name", rec.Name).Msg("failed to store patient record")
		return nil, "", fmt.Errorf("store patient record: %w", err)
	}
	rec.ID = id

	c.log.Info().
		Int64("id", id).
		Str("name", rec.Name).
		Str("specialty", string(specialty)).
		Str("urgency", string(urgency)).
		Msg("patient routed to department")

	subject := notify.AlertSubject(*rec)
	body := notify.AlertBody(*rec)
	outcome, derr := c.dispatcher.Send(ctx, c.adminEmail, subject, body, "")
	if derr != nil {
		c.log.Warn().Err(derr).Int64("id", id).Msg("department alert failed; record kept")
	}

	return rec, outcome, nil
}

// mergeFields overlays explicitly collected values onto extracted ones.
// The extractor's "Unknown" name is a default, so any explicit name wins.
func mergeFields(dst *pkg.ExtractedFields, src pkg.ExtractedFields) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Age != "" {
		dst.Age = src.Age
	}
	if src.Gender != "" {
		dst.Gender = src.Gender
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Insurance != "" {
		dst.Insurance = src.Insurance
	}
	if src.Symptoms != "" {
		dst.Symptoms = src.Symptoms
	}
	if src.MedicalHistory != "" {
		dst.MedicalHistory = src.MedicalHistory
	}
}
