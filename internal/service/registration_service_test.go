package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwiceFailsWithAlreadyRegistered(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	u := f.signUp(t, "rani")
	e := f.createEvent(t, "Seminar", "2025-03-01")

	reg, err := f.registrations.Register(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, reg.RegisteredAt.IsZero())

	_, err = f.registrations.Register(ctx, u.ID, e.ID)
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	mine, err := f.registrations.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestRegisterMissingEvent(t *testing.T) {
	f := newFixture(t, "")
	u := f.signUp(t, "sinta")
	_, err := f.registrations.Register(context.Background(), u.ID, 404)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegisterFullEvent(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	one := 1
	in := validEventInput("Kecil", "2025-03-02")
	in.MaxParticipants = &one
	e, err := f.events.Create(ctx, in)
	require.NoError(t, err)

	_, err = f.registrations.Register(ctx, f.signUp(t, "first").ID, e.ID)
	require.NoError(t, err)
	_, err = f.registrations.Register(ctx, f.signUp(t, "second").ID, e.ID)
	require.ErrorIs(t, err, ErrEventFull)
}

func TestCancel(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	u := f.signUp(t, "tono")
	e := f.createEvent(t, "Webinar", "2025-03-03")

	require.ErrorIs(t, f.registrations.Cancel(ctx, u.ID, e.ID), ErrNotRegistered)

	_, err := f.registrations.Register(ctx, u.ID, e.ID)
	require.NoError(t, err)
	require.NoError(t, f.registrations.Cancel(ctx, u.ID, e.ID))
	require.ErrorIs(t, f.registrations.Cancel(ctx, u.ID, e.ID), ErrNotRegistered)

	mine, err := f.registrations.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	// a cancelled seat can be taken again
	_, err = f.registrations.Register(ctx, u.ID, e.ID)
	require.NoError(t, err)
}

func TestListForUserMatchesRegistrations(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	u := f.signUp(t, "umi")
	other := f.signUp(t, "vina")

	events := []int64{
		f.createEvent(t, "c", "2025-05-01").ID,
		f.createEvent(t, "a", "2025-01-01").ID,
		f.createEvent(t, "b", "2025-03-01").ID,
	}
	skipped := f.createEvent(t, "skip", "2025-02-01").ID

	for _, id := range events {
		_, err := f.registrations.Register(ctx, u.ID, id)
		require.NoError(t, err)
	}
	_, err := f.registrations.Register(ctx, other.ID, skipped)
	require.NoError(t, err)

	mine, err := f.registrations.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	got := make([]int64, len(mine))
	for i := range mine {
		got[i] = mine[i].ID
	}
	assert.Equal(t, []int64{events[1], events[2], events[0]}, got)
	assert.NotContains(t, got, skipped)
}

func TestListForEvent(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	e := f.createEvent(t, "Sidang", "2025-04-01")
	first := f.signUp(t, "w1")
	second := f.signUp(t, "w2")
	for _, id := range []int64{first.ID, second.ID} {
		_, err := f.registrations.Register(ctx, id, e.ID)
		require.NoError(t, err)
	}

	list, err := f.registrations.ListForEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].UserID)
	assert.Equal(t, "w2@example.com", list[0].Email)

	_, err = f.registrations.ListForEvent(ctx, 999)
	require.ErrorIs(t, err, ErrEventNotFound)
}
