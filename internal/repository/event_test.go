package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/eventmate/eventmate-go/internal/model"
)

var eventRowColumns = []string{"id", "title", "category", "date", "start_time", "end_time", "location", "description", "price"}

func newEventRepo(t *testing.T) (sqlmock.Sqlmock, *EventRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %v", err)
		}
		db.Close()
	})
	return mock, NewEventRepository(db)
}

func TestEventList(t *testing.T) {
	mock, repo := newEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY e.date ASC, e.start_time ASC")).
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow(1, "Workshop", "tech", "2025-11-01", "09:00:00", "12:00:00", "Lab", "Go", 0.0).
			AddRow(2, "Concert", "music", "2025-11-02", nil, nil, "Hall", "", 25.5))

	events, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("List() returned %d events, want 2", len(events))
	}
	if events[0].StartTime != "09:00:00" || events[1].StartTime != "" || events[1].Price != 25.5 {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestEventListEmpty(t *testing.T) {
	mock, repo := newEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events e")).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	events, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("List() = %#v, want non-nil empty slice", events)
	}
}

func TestEventGetByIDNotFound(t *testing.T) {
	mock, repo := newEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.id = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	if _, err := repo.GetByID(context.Background(), 99); err != ErrEventNotFound {
		t.Fatalf("GetByID() error = %v, want ErrEventNotFound", err)
	}
}

func TestEventExists(t *testing.T) {
	mock, repo := newEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM events WHERE id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM events WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	if ok, err := repo.Exists(context.Background(), 1); err != nil || !ok {
		t.Errorf("Exists(1) = %v, %v; want true, nil", ok, err)
	}
	if ok, err := repo.Exists(context.Background(), 2); err != nil || ok {
		t.Errorf("Exists(2) = %v, %v; want false, nil", ok, err)
	}
}

func TestEventCreateStoresEmptyTimesAsNull(t *testing.T) {
	mock, repo := newEventRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs("Meetup", "", "2025-11-03",
			"18:00", nil,
			"", "", 0.0).
		WillReturnResult(sqlmock.NewResult(12, 1))

	e := &model.Event{Title: "Meetup", Date: "2025-11-03", StartTime: "18:00"}
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if e.ID != 12 {
		t.Errorf("e.ID = %d, want 12", e.ID)
	}
}

func TestEventUpdateNotFound(t *testing.T) {
	mock, repo := newEventRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Event{ID: 5, Title: "x", Date: "2025-01-01"})
	if err != ErrEventNotFound {
		t.Fatalf("Update() error = %v, want ErrEventNotFound", err)
	}
}

func TestEventDeleteCascades(t *testing.T) {
	mock, repo := newEventRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM event_registrations WHERE event_id = ?")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
}
