package service

import (
	"context"

	"github.com/eventmate/eventmate-go/internal/model"
)

// UserStore persists identities. Implemented by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// EventStore persists events. Implemented by repository.EventRepository.
type EventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id int64) error
}

// RegistrationStore persists registrations. Implemented by
// repository.RegistrationRepository.
type RegistrationStore interface {
	Create(ctx context.Context, reg *model.Registration) error
	Delete(ctx context.Context, userID, eventID int64) error
	ListEventsByUser(ctx context.Context, userID int64) ([]model.Event, error)
	ListByEvent(ctx context.Context, eventID int64) ([]model.Registrant, error)
}
