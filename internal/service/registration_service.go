package service

import (
	"context"
	"errors"

	"eventmate/internal/domain"
	"eventmate/internal/repository"
)

// RegistrationService manages user registrations for events.
type RegistrationService interface {
	Register(ctx context.Context, userID, eventID int64) (*domain.Registration, error)
	Cancel(ctx context.Context, userID, eventID int64) error
	ListForUser(ctx context.Context, userID int64) ([]domain.RegisteredEvent, error)
	ListForEvent(ctx context.Context, eventID int64) ([]domain.Participant, error)
}

type registrationService struct {
	registrations repository.RegistrationRepository
	events        repository.EventRepository
}

func NewRegistrationService(registrations repository.RegistrationRepository, events repository.EventRepository) RegistrationService {
	return &registrationService{
		registrations: registrations,
		events:        events,
	}
}

func (s *registrationService) Register(ctx context.Context, userID, eventID int64) (*domain.Registration, error) {
	reg := &domain.Registration{UserID: userID, EventID: eventID}
	if _, err := s.registrations.Create(ctx, reg); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadyRegistered
		case errors.Is(err, repository.ErrCapacityReached):
			return nil, ErrEventFull
		}
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) Cancel(ctx context.Context, userID, eventID int64) error {
	if err := s.registrations.Delete(ctx, userID, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotRegistered
		}
		return err
	}
	return nil
}

func (s *registrationService) ListForUser(ctx context.Context, userID int64) ([]domain.RegisteredEvent, error) {
	return s.registrations.ListByUser(ctx, userID)
}

func (s *registrationService) ListForEvent(ctx context.Context, eventID int64) ([]domain.Participant, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.registrations.ListByEvent(ctx, eventID)
}
