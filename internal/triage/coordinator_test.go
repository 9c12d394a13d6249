package triage

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-intake/pkg"
)

// -- Mocks --

type mockPatientStore struct {
	records []pkg.PatientRecord
	failing bool
}

func (m *mockPatientStore) InsertPatient(_ context.Context, rec *pkg.PatientRecord) (int64, error) {
	if m.failing {
		return 0, fmt.Errorf("connection refused")
	}
	rec.CreatedAt = time.Now()
	rec.Status = pkg.StatusPending
	m.records = append(m.records, *rec)
	return int64(len(m.records)), nil
}

type recordingDispatcher struct {
	to      string
	subject string
	body    string
	cc      string
	calls   int
	outcome string
	sendErr error
}

func (d *recordingDispatcher) Send(_ context.Context, to, subject, body, cc string) (string, error) {
	d.calls++
	d.to, d.subject, d.body, d.cc = to, subject, body, cc
	if d.sendErr != nil {
		return "Failed to send email: " + d.sendErr.Error(), d.sendErr
	}
	if d.outcome == "" {
		d.outcome = "Email sent successfully to " + to
	}
	return d.outcome, nil
}

func newCoordinator(store *mockPatientStore, dispatcher *recordingDispatcher) *Coordinator {
	return NewCoordinator(store, dispatcher, "admin@clinic.test", zerolog.Nop())
}

// -- Tests --

func TestProcessFullIntake(t *testing.T) {
	store := &mockPatientStore{}
	dispatcher := &recordingDispatcher{}
	c := newCoordinator(store, dispatcher)

	rec, outcome, err := c.Process(context.Background(), Intake{
		Transcript: "Patient: I'm Maria, I have severe chest pain and shortness of breath, I'm 34",
		Fields: pkg.ExtractedFields{
			Age:      "34",
			Symptoms: "severe chest pain and shortness of breath",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Maria", rec.Name)
	assert.Equal(t, pkg.UrgencyCritical, rec.Urgency)
	assert.Equal(t, pkg.SpecialtyEmergency, rec.Specialty)
	assert.Equal(t, pkg.StatusPending, rec.Status)
	assert.Equal(t, int64(1), rec.ID)

	// Exactly one persisted record and one notification request.
	require.Len(t, store.records, 1)
	assert.Equal(t, 1, dispatcher.calls)
	assert.Equal(t, "admin@clinic.test", dispatcher.to)
	assert.True(t, strings.HasPrefix(dispatcher.subject, "🔴 CRITICAL ALERT: "), "subject: %s", dispatcher.subject)
	assert.Contains(t, outcome, "admin@clinic.test")
}

func TestProcessClassifiesFromTranscriptFields(t *testing.T) {
	store := &mockPatientStore{}
	dispatcher := &recordingDispatcher{}
	c := newCoordinator(store, dispatcher)

	rec, _, err := c.Process(context.Background(), Intake{
		Transcript: "Patient: my name is Priya, priya@example.com",
		Fields:     pkg.ExtractedFields{Symptoms: "itchy rash on arm", Age: "10"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Priya", rec.Name)
	assert.Equal(t, "priya@example.com", rec.Email)
	assert.Equal(t, pkg.SpecialtyDermatology, rec.Specialty)
	assert.Equal(t, pkg.UrgencyHigh, rec.Urgency)
}

func TestProcessDefaultsWithEmptyIntake(t *testing.T) {
	store := &mockPatientStore{}
	dispatcher := &recordingDispatcher{}
	c := newCoordinator(store, dispatcher)

	rec, _, err := c.Process(context.Background(), Intake{})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", rec.Name)
	assert.Equal(t, pkg.SpecialtyGeneral, rec.Specialty)
	assert.Equal(t, pkg.UrgencyMedium, rec.Urgency)
	assert.Equal(t, "", rec.Symptoms)
	assert.Equal(t, 1, dispatcher.calls)
}

func TestProcessExplicitFieldsWinOverExtraction(t *testing.T) {
	store := &mockPatientStore{}
	dispatcher := &recordingDispatcher{}
	c := newCoordinator(store, dispatcher)

	rec, _, err := c.Process(context.Background(), Intake{
		Transcript: "Patient: I'm Maria, call 555-123-4567",
		Fields: pkg.ExtractedFields{
			Name:  "Maria Lopez",
			Phone: "(555) 999-0000",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Lopez", rec.Name)
	assert.Equal(t, "(555) 999-0000", rec.Phone)
}

func TestProcessNormalisesSuppliedLabels(t *testing.T) {
	store := &mockPatientStore{}
	dispatcher := &recordingDispatcher{}
	c := newCoordinator(store, dispatcher)

	t.Run("known labels pass through", func(t *testing.T) {
		rec, _, err := c.Process(context.Background(), Intake{
			Fields:    pkg.ExtractedFields{Symptoms: "follow-up visit"},
			Specialty: "Cardiology",
			Urgency:   "LOW",
		})
		require.NoError(t, err)
		assert.Equal(t, pkg.SpecialtyCardiology, rec.Specialty)
		assert.Equal(t, pkg.UrgencyLow, rec.Urgency)
	})

	t.Run("unknown labels collapse to defaults", func(t *testing.T) {
		rec, _, err := c.Process(context.Background(), Intake{
			Fields:    pkg.ExtractedFields{Symptoms: "follow-up visit"},
			Specialty: "podiatry",
			Urgency:   "extreme",
		})
		require.NoError(t, err)
		assert.Equal(t, pkg.SpecialtyGeneral, rec.Specialty)
		assert.Equal(t, pkg.UrgencyMedium, rec.Urgency)
	})
}

func TestProcessStoreFailure(t *testing.T) {
	store := &mockPatientStore{failing: true}
	dispatcher := &recordingDispatcher{}
	c := newCoordinator(store, dispatcher)

	rec, outcome, err := c.Process(context.Background(), Intake{
		Fields: pkg.ExtractedFields{Name: "Sam", Symptoms: "fever"},
	})
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, "", outcome)
	// No notification without a persisted record.
	assert.Equal(t, 0, dispatcher.calls)
}

func TestProcessDispatchFailureKeepsRecord(t *testing.T) {
	store := &mockPatientStore{}
	dispatcher := &recordingDispatcher{sendErr: fmt.Errorf("smtp timeout")}
	c := newCoordinator(store, dispatcher)

	rec, outcome, err := c.Process(context.Background(), Intake{
		Fields: pkg.ExtractedFields{Name: "Sam", Symptoms: "fever"},
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Len(t, store.records, 1)
	assert.Contains(t, outcome, "Failed to send email")
	// One attempt, no retry.
	assert.Equal(t, 1, dispatcher.calls)
}

func TestSubjectPrefixOnlyForCriticalAndHigh(t *testing.T) {
	store := &mockPatientStore{}
	dispatcher := &recordingDispatcher{}
	c := newCoordinator(store, dispatcher)

	_, _, err := c.Process(context.Background(), Intake{
		Fields: pkg.ExtractedFields{Name: "Lee", Symptoms: "routine checkup"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dispatcher.subject, "New Patient: "), "subject: %s", dispatcher.subject)
}
