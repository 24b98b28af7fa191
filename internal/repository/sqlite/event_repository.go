package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventmate/internal/domain"
	"eventmate/internal/repository"
)

// date is kept as TEXT so the driver never converts it to a timestamp.
const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	category TEXT NOT NULL,
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	location TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price INTEGER NULL,
	max_participants INTEGER NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(date, start_time);
`

const eventColumns = `id, title, category, date, start_time, end_time, location, description, price, max_participants, created_at, updated_at`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEventsTable); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (int64, error) {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO events (title, category, date, start_time, end_time, location, description, price, max_participants, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.Title,
		string(event.Category),
		domain.FormatDate(event.Date),
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Description,
		nullInt64(event.Price),
		nullInt(event.MaxParticipants),
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	event.ID = id
	return id, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	event.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE events
SET title=?, category=?, date=?, start_time=?, end_time=?, location=?, description=?, price=?, max_participants=?, updated_at=?
WHERE id=?`,
		event.Title,
		string(event.Category),
		domain.FormatDate(event.Date),
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Description,
		nullInt64(event.Price),
		nullInt(event.MaxParticipants),
		event.UpdatedAt,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return expectAffected(res, "event", event.ID)
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return expectAffected(res, "event", id)
}

func (r *EventRepository) Get(ctx context.Context, id int64) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id=?`, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %d: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(filter.Category))
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date ASC, start_time ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func scanEvent(row interface {
	Scan(dest ...any) error
}, extra ...any) (*domain.Event, error) {
	var (
		event           domain.Event
		category        string
		date            string
		price           sql.NullInt64
		maxParticipants sql.NullInt64
	)
	dest := []any{
		&event.ID,
		&event.Title,
		&category,
		&date,
		&event.StartTime,
		&event.EndTime,
		&event.Location,
		&event.Description,
		&price,
		&maxParticipants,
		&event.CreatedAt,
		&event.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	event.Category = domain.Category(category)
	parsed, err := domain.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("scan event %d date: %w", event.ID, err)
	}
	event.Date = parsed
	if price.Valid {
		v := price.Int64
		event.Price = &v
	}
	if maxParticipants.Valid {
		v := int(maxParticipants.Int64)
		event.MaxParticipants = &v
	}
	return &event, nil
}

func expectAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, repository.ErrNotFound)
	}
	return nil
}
