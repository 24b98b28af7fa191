package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"eventmate/internal/domain"
)

type testStore struct {
	db            *sql.DB
	users         *UserRepository
	events        *EventRepository
	registrations *RegistrationRepository
}

func newTestStore(t *testing.T) testStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := testStore{
		db:            db,
		users:         &UserRepository{db: db},
		events:        &EventRepository{db: db},
		registrations: &RegistrationRepository{db: db},
	}
	ctx := context.Background()
	require.NoError(t, s.users.Init(ctx))
	require.NoError(t, s.events.Init(ctx))
	require.NoError(t, s.registrations.Init(ctx))
	return s
}

func (s testStore) addUser(t *testing.T, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:         "Name " + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	}
	_, err := s.users.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func (s testStore) addEvent(t *testing.T, title, date string, maxParticipants *int) *domain.Event {
	t.Helper()
	d, err := domain.ParseDate(date)
	require.NoError(t, err)
	e := &domain.Event{
		Title:           title,
		Category:        domain.CategorySeminar,
		Date:            d,
		StartTime:       "09:00",
		EndTime:         "11:00",
		Location:        "Aula",
		MaxParticipants: maxParticipants,
	}
	_, err = s.events.Create(context.Background(), e)
	require.NoError(t, err)
	return e
}
