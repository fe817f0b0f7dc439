package service

import (
	"context"
	"errors"
	"time"

	"github.com/eventmate/eventmate-go/internal/apperror"
	"github.com/eventmate/eventmate-go/internal/metrics"
	"github.com/eventmate/eventmate-go/internal/model"
	"github.com/eventmate/eventmate-go/internal/repository"
)

var (
	ErrAlreadyRegistered = apperror.NewConflictError("already registered for this event", nil)
	ErrNotRegistered     = apperror.NewNotFoundError("registration not found", nil)
)

// RegistrationService manages the (user, event) registration ledger.
type RegistrationService struct {
	events EventStore
	regs   RegistrationStore
	now    func() time.Time
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(events EventStore, regs RegistrationStore) *RegistrationService {
	return &RegistrationService{
		events: events,
		regs:   regs,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register records that userID attends eventID. It fails with
// ErrEventNotFound when the event does not exist and with
// ErrAlreadyRegistered when the pair is already registered.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID int64) error {
	exists, err := s.events.Exists(ctx, eventID)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("register", "error").Inc()
		return apperror.NewInternalError("checking event", err)
	}
	if !exists {
		metrics.RegistrationsTotal.WithLabelValues("register", "not_found").Inc()
		return ErrEventNotFound
	}

	reg := &model.Registration{UserID: userID, EventID: eventID, RegisteredAt: s.now()}
	if err := s.regs.Create(ctx, reg); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyRegistered):
			metrics.RegistrationsTotal.WithLabelValues("register", "duplicate").Inc()
			return ErrAlreadyRegistered
		case errors.Is(err, repository.ErrEventNotFound):
			metrics.RegistrationsTotal.WithLabelValues("register", "not_found").Inc()
			return ErrEventNotFound
		}
		metrics.RegistrationsTotal.WithLabelValues("register", "error").Inc()
		return apperror.NewInternalError("creating registration", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("register", "success").Inc()
	return nil
}

// Cancel removes the registration of userID for eventID.
func (s *RegistrationService) Cancel(ctx context.Context, userID, eventID int64) error {
	if err := s.regs.Delete(ctx, userID, eventID); err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			metrics.RegistrationsTotal.WithLabelValues("cancel", "not_found").Inc()
			return ErrNotRegistered
		}
		metrics.RegistrationsTotal.WithLabelValues("cancel", "error").Inc()
		return apperror.NewInternalError("deleting registration", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("cancel", "success").Inc()
	return nil
}

// ListForUser returns the events userID is registered for.
func (s *RegistrationService) ListForUser(ctx context.Context, userID int64) ([]model.Event, error) {
	events, err := s.regs.ListEventsByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternalError("listing user events", err)
	}
	return events, nil
}

// ListForEvent returns the registrants of eventID, most recent first.
func (s *RegistrationService) ListForEvent(ctx context.Context, eventID int64) ([]model.Registrant, error) {
	registrants, err := s.regs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.NewInternalError("listing registrations", err)
	}
	return registrants, nil
}
