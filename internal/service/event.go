package service

import (
	"context"
	"errors"

	"github.com/eventmate/eventmate-go/internal/apperror"
	"github.com/eventmate/eventmate-go/internal/model"
	"github.com/eventmate/eventmate-go/internal/repository"
	"github.com/eventmate/eventmate-go/internal/validate"
)

var ErrEventNotFound = apperror.NewNotFoundError("event not found", nil)

// EventService handles the event directory. Role checks happen in the HTTP
// layer before these methods are reached.
type EventService struct {
	repo     EventStore
	validate *validate.Validator
}

// NewEventService creates a new EventService.
func NewEventService(repo EventStore, v *validate.Validator) *EventService {
	return &EventService{repo: repo, validate: v}
}

// List returns all events ordered by date, then start time.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternalError("listing events", err)
	}
	return events, nil
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, id int64) (model.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.Event{}, ErrEventNotFound
		}
		return model.Event{}, apperror.NewInternalError("loading event", err)
	}
	return *e, nil
}

// Create stores a new event.
func (s *EventService) Create(ctx context.Context, in model.EventInput) (model.Event, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return model.Event{}, err
	}

	e := in.ToEvent(0)
	if err := s.repo.Create(ctx, &e); err != nil {
		return model.Event{}, apperror.NewInternalError("creating event", err)
	}
	return e, nil
}

// Update overwrites an event. A date carrying a time component is truncated
// to its date portion.
func (s *EventService) Update(ctx context.Context, id int64, in model.EventInput) (model.Event, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return model.Event{}, err
	}

	e := in.ToEvent(id)
	if err := s.repo.Update(ctx, &e); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.Event{}, ErrEventNotFound
		}
		return model.Event{}, apperror.NewInternalError("updating event", err)
	}
	return e, nil
}

// Delete removes an event together with its registrations. Deleting a
// missing event succeeds.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.NewInternalError("deleting event", err)
	}
	return nil
}
