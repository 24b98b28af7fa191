package domain

import "time"

// Registration links one user to one event.
type Registration struct {
	ID           int64
	UserID       int64
	EventID      int64
	RegisteredAt time.Time
}

// RegisteredEvent is an event seen from the registering user's side.
type RegisteredEvent struct {
	Event
	RegisteredAt time.Time
}

// Participant is a registered user seen from the event's side.
type Participant struct {
	UserID       int64
	Name         string
	Username     string
	Email        string
	RegisteredAt time.Time
}
