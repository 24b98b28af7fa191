package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventmate/internal/domain"
	"eventmate/internal/repository"
)

const createRegistrationsTable = `
CREATE TABLE IF NOT EXISTS event_registrations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	event_id INTEGER NOT NULL,
	registered_at DATETIME NOT NULL,
	UNIQUE (user_id, event_id),
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY(event_id) REFERENCES events(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_event_registrations_event_id ON event_registrations(event_id);
`

type RegistrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) repository.RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRegistrationsTable); err != nil {
		return fmt.Errorf("create event_registrations table: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.Registration) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	var maxParticipants sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT max_participants FROM events WHERE id=?`, reg.EventID).Scan(&maxParticipants)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("event %d: %w", reg.EventID, repository.ErrNotFound)
		}
		return 0, fmt.Errorf("lookup event: %w", err)
	}

	var exists int
	err = tx.QueryRowContext(ctx, `
SELECT COUNT(*) FROM event_registrations WHERE user_id=? AND event_id=?`,
		reg.UserID, reg.EventID,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("lookup registration: %w", err)
	}
	if exists > 0 {
		return 0, fmt.Errorf("registration user %d event %d: %w", reg.UserID, reg.EventID, repository.ErrDuplicate)
	}

	if maxParticipants.Valid {
		var count int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_registrations WHERE event_id=?`, reg.EventID).Scan(&count); err != nil {
			return 0, fmt.Errorf("count registrations: %w", err)
		}
		if count >= maxParticipants.Int64 {
			return 0, fmt.Errorf("event %d: %w", reg.EventID, repository.ErrCapacityReached)
		}
	}

	reg.RegisteredAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
INSERT INTO event_registrations (user_id, event_id, registered_at)
VALUES (?, ?, ?)`,
		reg.UserID,
		reg.EventID,
		reg.RegisteredAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("registration user %d event %d: %w", reg.UserID, reg.EventID, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert registration: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("registration last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("registration user %d event %d: %w", reg.UserID, reg.EventID, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	reg.ID = id
	return id, nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, userID, eventID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM event_registrations WHERE user_id=? AND event_id=?`, userID, eventID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("registration rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("registration user %d event %d: %w", userID, eventID, repository.ErrNotFound)
	}
	return nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.RegisteredEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT e.id, e.title, e.category, e.date, e.start_time, e.end_time, e.location, e.description,
	e.price, e.max_participants, e.created_at, e.updated_at, er.registered_at
FROM event_registrations er
JOIN events e ON e.id = er.event_id
WHERE er.user_id = ?
ORDER BY e.date ASC, e.start_time ASC, e.id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user registrations: %w", err)
	}
	defer rows.Close()

	out := []domain.RegisteredEvent{}
	for rows.Next() {
		var registeredAt time.Time
		event, err := scanEvent(rows, &registeredAt)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.RegisteredEvent{Event: *event, RegisteredAt: registeredAt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user registrations: %w", err)
	}
	return out, nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT u.id, u.name, u.username, u.email, er.registered_at
FROM event_registrations er
JOIN users u ON u.id = er.user_id
WHERE er.event_id = ?
ORDER BY er.registered_at DESC, er.id DESC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query event registrations: %w", err)
	}
	defer rows.Close()

	out := []domain.Participant{}
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.UserID, &p.Name, &p.Username, &p.Email, &p.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event registrations: %w", err)
	}
	return out, nil
}
