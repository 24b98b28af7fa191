package repository

import (
	"context"
	"errors"

	"eventmate/internal/domain"
)

// ErrCapacityReached is returned by Create when the event has no free seats left.
var ErrCapacityReached = errors.New("capacity reached")

// RegistrationRepository manages event_registrations rows.
type RegistrationRepository interface {
	Init(ctx context.Context) error
	// Create inserts a registration. It returns ErrNotFound when the event
	// does not exist, ErrCapacityReached when the event is full and
	// ErrDuplicate when the pair is already registered.
	Create(ctx context.Context, reg *domain.Registration) (int64, error)
	// Delete removes the pair and returns ErrNotFound when nothing was removed.
	Delete(ctx context.Context, userID, eventID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.RegisteredEvent, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Participant, error)
}
