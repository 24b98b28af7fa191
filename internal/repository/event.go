package repository

import (
	"context"

	"eventmate/internal/domain"
)

// EventFilter narrows List results. Zero values match everything.
type EventFilter struct {
	Category domain.Category
}

// EventRepository exposes persistence operations for events.
type EventRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, event *domain.Event) (int64, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]domain.Event, error)
}
