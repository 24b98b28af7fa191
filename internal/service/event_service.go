package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventmate/internal/domain"
	"eventmate/internal/repository"
)

// EventInput carries the writable fields of an event as received from clients.
type EventInput struct {
	Title           string
	Category        string
	Date            string
	StartTime       string
	EndTime         string
	Location        string
	Description     string
	Price           *int64
	MaxParticipants *int
}

// EventService coordinates event management.
type EventService interface {
	Create(ctx context.Context, in EventInput) (*domain.Event, error)
	Update(ctx context.Context, id int64, in EventInput) (*domain.Event, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, category string) ([]domain.Event, error)
}

type eventService struct {
	events repository.EventRepository
}

func NewEventService(events repository.EventRepository) EventService {
	return &eventService{events: events}
}

func (s *eventService) Create(ctx context.Context, in EventInput) (*domain.Event, error) {
	event := &domain.Event{}
	if err := applyEventInput(event, in); err != nil {
		return nil, err
	}
	if _, err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id int64, in EventInput) (*domain.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyEventInput(event, in); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func (s *eventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, category string) ([]domain.Event, error) {
	var filter repository.EventFilter
	if category = strings.TrimSpace(category); category != "" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return nil, &ValidationError{Problems: []string{"category is invalid"}}
		}
		filter.Category = c
	}
	return s.events.List(ctx, filter)
}

// applyEventInput validates in and copies it onto event. event is left
// untouched when validation fails.
func applyEventInput(event *domain.Event, in EventInput) error {
	verr := &ValidationError{}
	required := func(field, value string) string {
		value = strings.TrimSpace(value)
		if value == "" {
			verr.add(field + " is required")
		}
		return value
	}

	title := required("title", in.Title)
	categoryRaw := required("category", in.Category)
	dateRaw := required("date", in.Date)
	start := required("start_time", in.StartTime)
	end := required("end_time", in.EndTime)
	location := required("location", in.Location)

	var category domain.Category
	if categoryRaw != "" {
		c, err := domain.ParseCategory(categoryRaw)
		if err != nil {
			verr.add("category is invalid")
		}
		category = c
	}

	var date time.Time
	if dateRaw != "" {
		d, err := domain.ParseDate(dateRaw)
		if err != nil {
			verr.add("date must be YYYY-MM-DD")
		}
		date = d
	}

	startOK := start != "" && validClock(start, "start_time", verr)
	endOK := end != "" && validClock(end, "end_time", verr)
	if startOK && endOK && end < start {
		verr.add("end_time must not be before start_time")
	}

	if in.Price != nil && *in.Price < 0 {
		verr.add("price must not be negative")
	}
	if in.MaxParticipants != nil && *in.MaxParticipants < 0 {
		verr.add("max_participants must not be negative")
	}

	if err := verr.orNil(); err != nil {
		return err
	}

	event.Title = title
	event.Category = category
	event.Date = date
	event.StartTime = start
	event.EndTime = end
	event.Location = location
	event.Description = strings.TrimSpace(in.Description)
	event.Price = in.Price
	event.MaxParticipants = in.MaxParticipants
	return nil
}

// validClock accepts strict HH:MM, so string comparison orders times correctly.
func validClock(value, field string, verr *ValidationError) bool {
	if len(value) != len(domain.ClockLayout) {
		verr.add(field + " must be HH:MM")
		return false
	}
	if _, err := time.Parse(domain.ClockLayout, value); err != nil {
		verr.add(field + " must be HH:MM")
		return false
	}
	return true
}
