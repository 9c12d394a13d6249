package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clinic-intake/pkg"
)

// ErrSessionNotFound is returned when an intake session ID does not exist.
var ErrSessionNotFound = errors.New("intake session not found")

// Repository wraps database operations for patient records and intake
// sessions. Each call uses the shared pool for a single operation; no
// transaction spans multiple logical operations.
type Repository struct {
	DB  *sql.DB
	log zerolog.Logger
}

// NewRepository constructs a Repository from an existing sql.DB. The caller
// is responsible for managing the DB connection lifecycle.
func NewRepository(db *sql.DB, logger zerolog.Logger) *Repository {
	return &Repository{DB: db, log: logger}
}

// Ping reports whether the backing store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// -- Patient records --

// InsertPatient stores a fully-formed patient record and returns the
// assigned ID. The timestamp and pending status are set here; name,
// specialty and urgency must already be resolved and non-empty.
func (r *Repository) InsertPatient(ctx context.Context, rec *pkg.PatientRecord) (int64, error) {
	if rec.Name == "" {
		return 0, fmt.Errorf("patient name is required")
	}
	if rec.Specialty == "" {
		return 0, fmt.Errorf("specialty is required")
	}
	if rec.Urgency == "" {
		return 0, fmt.Errorf("urgency is required")
	}

	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO patients (timestamp, name, age, gender, phone, email, insurance, symptoms, medical_history, specialty, urgency, status)
         VALUES (NOW(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
         RETURNING id, timestamp, status`,
		rec.Name, rec.Age, rec.Gender, rec.Phone, rec.Email, rec.Insurance,
		rec.Symptoms, rec.MedicalHistory, string(rec.Specialty), string(rec.Urgency),
		pkg.StatusPending,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.Status)
	if err != nil {
		r.log.Error().Err(err).Str("name", rec.Name).Msg("insert patient failed")
		return 0, err
	}
	r.log.Info().Int64("id", rec.ID).Str("name", rec.Name).Msg("patient record stored")
	return rec.ID, nil
}

// ListPatients returns all patient records, newest first. A read failure
// degrades to an empty result plus the error as a diagnostic; callers log
// it and render an empty list.
func (r *Repository) ListPatients(ctx context.Context) ([]pkg.PatientRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, timestamp, name, age, gender, phone, email, insurance, symptoms, medical_history, specialty, urgency, status
         FROM patients
         ORDER BY timestamp DESC`)
	if err != nil {
		r.log.Error().Err(err).Msg("list patients failed")
		return []pkg.PatientRecord{}, err
	}
	defer rows.Close()

	records := []pkg.PatientRecord{}
	for rows.Next() {
		var rec pkg.PatientRecord
		var specialty, urgency string
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Name, &rec.Age, &rec.Gender,
			&rec.Phone, &rec.Email, &rec.Insurance, &rec.Symptoms, &rec.MedicalHistory,
			&specialty, &urgency, &rec.Status); err != nil {
			r.log.Error().Err(err).Msg("scan patient row failed")
			return []pkg.PatientRecord{}, err
		}
		// Unrecognised labels from older rows collapse to the defaults.
		rec.Specialty = pkg.ParseSpecialty(specialty)
		rec.Urgency = pkg.ParseUrgency(urgency)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return []pkg.PatientRecord{}, err
	}
	return records, nil
}

// -- Intake sessions --

// CreateSession opens a new intake session with the given message cap.
func (r *Repository) CreateSession(ctx context.Context, messageCap int) (*pkg.IntakeSession, error) {
	sess := &pkg.IntakeSession{ID: uuid.New().String(), MessageCap: messageCap}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO intake_sessions (id, message_cap)
         VALUES ($1, $2)
         RETURNING created_at`,
		sess.ID, messageCap,
	).Scan(&sess.CreatedAt)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// GetSession retrieves an intake session by ID.
func (r *Repository) GetSession(ctx context.Context, sessionID string) (*pkg.IntakeSession, error) {
	var sess pkg.IntakeSession
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, created_at, closed_at, message_cap
         FROM intake_sessions
         WHERE id = $1`,
		sessionID,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.ClosedAt, &sess.MessageCap)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

// CloseSession marks a session as completed. Closing an already-closed
// session keeps the original close time.
func (r *Repository) CloseSession(ctx context.Context, sessionID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE intake_sessions
         SET closed_at = COALESCE(closed_at, NOW())
         WHERE id = $1`,
		sessionID)
	return err
}

// AppendMessage stores one conversation turn for a session.
func (r *Repository) AppendMessage(ctx context.Context, sessionID string, role pkg.MessageRole, content string) (*pkg.Message, error) {
	var m pkg.Message
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO intake_messages (session_id, role, content)
         VALUES ($1, $2, $3)
         RETURNING id, role, content, created_at`,
		sessionID, string(role), content,
	).Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.SessionID = sessionID
	return &m, nil
}

// ListMessages returns a session's messages ordered by creation time.
func (r *Repository) ListMessages(ctx context.Context, sessionID string) ([]pkg.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at
         FROM intake_messages
         WHERE session_id = $1
         ORDER BY created_at ASC, id ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []pkg.Message
	for rows.Next() {
		var m pkg.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// CountPatientMessages counts the patient turns in a session for message-cap
// enforcement.
func (r *Repository) CountPatientMessages(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*)
         FROM intake_messages
         WHERE session_id = $1 AND role = 'patient'`,
		sessionID,
	).Scan(&count)
	return count, err
}
