package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"eventmate/internal/domain"
	"eventmate/internal/repository/sqlite"
)

type fixture struct {
	users         UserService
	events        EventService
	registrations RegistrationService
}

func newFixture(t *testing.T, adminCode string) fixture {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	regRepo := sqlite.NewRegistrationRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, eventRepo.Init(ctx))
	require.NoError(t, regRepo.Init(ctx))

	users := NewUserService(userRepo, adminCode)
	users.(*userService).bcryptCost = bcrypt.MinCost

	return fixture{
		users:         users,
		events:        NewEventService(eventRepo),
		registrations: NewRegistrationService(regRepo, eventRepo),
	}
}

func (f fixture) signUp(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := f.users.SignUp(context.Background(), SignUpInput{
		Name:     "Name " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "rahasia123",
	})
	require.NoError(t, err)
	return u
}

func validEventInput(title, date string) EventInput {
	return EventInput{
		Title:     title,
		Category:  "Seminar",
		Date:      date,
		StartTime: "09:00",
		EndTime:   "10:30",
		Location:  "Aula Utama",
	}
}

func (f fixture) createEvent(t *testing.T, title, date string) *domain.Event {
	t.Helper()
	e, err := f.events.Create(context.Background(), validEventInput(title, date))
	require.NoError(t, err)
	return e
}
