// Package servicetest provides in-memory implementations of the service
// store interfaces for tests. They return the same sentinel errors as the
// MySQL repositories and enforce the same uniqueness rules.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eventmate/eventmate-go/internal/model"
	"github.com/eventmate/eventmate-go/internal/repository"
)

// DB is a shared in-memory dataset behind the three store views.
type DB struct {
	mu sync.Mutex

	users      map[int64]model.User
	nextUserID int64

	events      map[int64]model.Event
	nextEventID int64

	regs []model.Registration

	// Err, when set, is returned by every store operation.
	Err error
}

// New returns an empty DB.
func New() *DB {
	return &DB{
		users:  make(map[int64]model.User),
		events: make(map[int64]model.Event),
	}
}

// Users returns the user store view.
func (db *DB) Users() *UserStore { return &UserStore{db: db} }

// Events returns the event store view.
func (db *DB) Events() *EventStore { return &EventStore{db: db} }

// Registrations returns the registration store view.
func (db *DB) Registrations() *RegistrationStore { return &RegistrationStore{db: db} }

// RegistrationCount returns the number of stored registrations.
func (db *DB) RegistrationCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.regs)
}

// UserStore is the in-memory user store.
type UserStore struct{ db *DB }

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return db.Err
	}

	for _, u := range db.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	db.nextUserID++
	user.ID = db.nextUserID
	user.CreatedAt = time.Now().UTC()
	db.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return nil, db.Err
	}

	for _, u := range db.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// EventStore is the in-memory event store.
type EventStore struct{ db *DB }

func (s *EventStore) List(_ context.Context) ([]model.Event, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return nil, db.Err
	}

	events := make([]model.Event, 0, len(db.events))
	for _, e := range db.events {
		events = append(events, e)
	}
	sortEvents(events)
	return events, nil
}

func (s *EventStore) GetByID(_ context.Context, id int64) (*model.Event, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return nil, db.Err
	}

	e, ok := db.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return &e, nil
}

func (s *EventStore) Exists(_ context.Context, id int64) (bool, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return false, db.Err
	}

	_, ok := db.events[id]
	return ok, nil
}

func (s *EventStore) Create(_ context.Context, e *model.Event) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return db.Err
	}

	db.nextEventID++
	e.ID = db.nextEventID
	db.events[e.ID] = *e
	return nil
}

func (s *EventStore) Update(_ context.Context, e *model.Event) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return db.Err
	}

	if _, ok := db.events[e.ID]; !ok {
		return repository.ErrEventNotFound
	}
	db.events[e.ID] = *e
	return nil
}

func (s *EventStore) Delete(_ context.Context, id int64) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return db.Err
	}

	delete(db.events, id)
	kept := db.regs[:0]
	for _, r := range db.regs {
		if r.EventID != id {
			kept = append(kept, r)
		}
	}
	db.regs = kept
	return nil
}

// RegistrationStore is the in-memory registration store.
type RegistrationStore struct{ db *DB }

func (s *RegistrationStore) Create(_ context.Context, reg *model.Registration) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return db.Err
	}

	if _, ok := db.events[reg.EventID]; !ok {
		return repository.ErrEventNotFound
	}
	for _, r := range db.regs {
		if r.UserID == reg.UserID && r.EventID == reg.EventID {
			return repository.ErrAlreadyRegistered
		}
	}
	db.regs = append(db.regs, *reg)
	return nil
}

func (s *RegistrationStore) Delete(_ context.Context, userID, eventID int64) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return db.Err
	}

	for i, r := range db.regs {
		if r.UserID == userID && r.EventID == eventID {
			db.regs = append(db.regs[:i], db.regs[i+1:]...)
			return nil
		}
	}
	return repository.ErrRegistrationNotFound
}

func (s *RegistrationStore) ListEventsByUser(_ context.Context, userID int64) ([]model.Event, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return nil, db.Err
	}

	events := []model.Event{}
	for _, r := range db.regs {
		if r.UserID != userID {
			continue
		}
		if e, ok := db.events[r.EventID]; ok {
			events = append(events, e)
		}
	}
	sortEvents(events)
	return events, nil
}

func (s *RegistrationStore) ListByEvent(_ context.Context, eventID int64) ([]model.Registrant, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Err != nil {
		return nil, db.Err
	}

	registrants := []model.Registrant{}
	// Walk newest first so equal timestamps keep insertion order reversed.
	for i := len(db.regs) - 1; i >= 0; i-- {
		r := db.regs[i]
		if r.EventID != eventID {
			continue
		}
		u := db.users[r.UserID]
		registrants = append(registrants, model.Registrant{
			ID:           r.UserID,
			Name:         u.Name,
			Username:     u.Username,
			RegisteredAt: r.RegisteredAt,
		})
	}
	sort.SliceStable(registrants, func(i, j int) bool {
		return registrants[i].RegisteredAt.After(registrants[j].RegisteredAt)
	})
	return registrants, nil
}

func sortEvents(events []model.Event) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}
