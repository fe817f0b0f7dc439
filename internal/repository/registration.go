package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eventmate/eventmate-go/internal/model"
)

var (
	ErrAlreadyRegistered    = errors.New("user already registered for event")
	ErrRegistrationNotFound = errors.New("registration not found")
)

// RegistrationRepository persists (user, event) registrations. At most one
// row exists per pair; the unique key on (user_id, event_id) enforces it.
type RegistrationRepository struct {
	db *sql.DB
}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create inserts a registration. The existence check and the insert run in
// one transaction; a concurrent duplicate that slips past the check is
// rejected by the unique key and reported as ErrAlreadyRegistered. An event
// deleted in the meantime fails the event foreign key and yields
// ErrEventNotFound; a missing user is a plain error.
func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM event_registrations WHERE user_id = ? AND event_id = ?`,
		reg.UserID, reg.EventID,
	).Scan(&existing)
	switch {
	case err == nil:
		return ErrAlreadyRegistered
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO event_registrations (user_id, event_id, registered_at) VALUES (?, ?, ?)`,
		reg.UserID, reg.EventID, reg.RegisteredAt,
	)
	if err != nil {
		switch {
		case isDuplicateEntryError(err):
			return ErrAlreadyRegistered
		case isForeignKeyError(err, fkRegistrationsEvent):
			return ErrEventNotFound
		case isForeignKeyError(err, fkRegistrationsUser):
			return fmt.Errorf("registering unknown user %d: %w", reg.UserID, err)
		}
		return err
	}

	return tx.Commit()
}

// Delete removes the registration for the pair.
func (r *RegistrationRepository) Delete(ctx context.Context, userID, eventID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE user_id = ? AND event_id = ?`,
		userID, eventID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// ListEventsByUser returns the events a user is registered for, in schedule order.
func (r *RegistrationRepository) ListEventsByUser(ctx context.Context, userID int64) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		JOIN event_registrations er ON e.id = er.event_id
		WHERE er.user_id = ?
		ORDER BY e.date ASC, e.start_time ASC, e.id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListByEvent returns the registrants of an event, most recent first.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Registrant, error) {
	query := `SELECT u.id, u.name, u.username, er.registered_at
		FROM event_registrations er
		JOIN users u ON u.id = er.user_id
		WHERE er.event_id = ?
		ORDER BY er.registered_at DESC, er.id DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrants := []model.Registrant{}
	for rows.Next() {
		var reg model.Registrant
		if err := rows.Scan(&reg.ID, &reg.Name, &reg.Username, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		registrants = append(registrants, reg)
	}

	return registrants, rows.Err()
}
