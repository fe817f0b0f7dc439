package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventmate/eventmate-go/internal/model"
)

var ErrEventNotFound = errors.New("event not found")

// eventColumns formats DATE and TIME columns as strings so they round-trip
// unchanged through the API.
const eventColumns = `e.id, e.title, e.category, DATE_FORMAT(e.date, '%Y-%m-%d'),
	TIME_FORMAT(e.start_time, '%H:%i:%s'), TIME_FORMAT(e.end_time, '%H:%i:%s'),
	e.location, e.description, e.price`

// EventRepository handles event persistence operations.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns all events ordered by date, then start time.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e ORDER BY e.date ASC, e.start_time ASC, e.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = ?`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

// Exists reports whether an event with the given ID exists.
func (r *EventRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var found int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create inserts a new event and sets the generated ID on the event struct.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	query := `INSERT INTO events (title, category, date, start_time, end_time, location, description, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		e.Title, e.Category, e.Date, nullString(e.StartTime), nullString(e.EndTime),
		e.Location, e.Description, e.Price,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	e.ID = id
	return nil
}

// Update overwrites all fields of an existing event.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	query := `UPDATE events
		SET title = ?, category = ?, date = ?, start_time = ?, end_time = ?, location = ?, description = ?, price = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		e.Title, e.Category, e.Date, nullString(e.StartTime), nullString(e.EndTime),
		e.Location, e.Description, e.Price, e.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete removes an event and its registrations in one transaction.
// Deleting a missing event is not an error.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_registrations WHERE event_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var (
		e          model.Event
		start, end sql.NullString
	)
	if err := row.Scan(
		&e.ID, &e.Title, &e.Category, &e.Date, &start, &end,
		&e.Location, &e.Description, &e.Price,
	); err != nil {
		return nil, err
	}
	e.StartTime = start.String
	e.EndTime = end.String
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}

	return events, rows.Err()
}

// nullString stores empty optional columns as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
