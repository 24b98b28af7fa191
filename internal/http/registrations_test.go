package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmate/internal/domain"
	"eventmate/internal/service"
	"eventmate/internal/storage"
)

func TestRegisterCancelFlow(t *testing.T) {
	s := newTestServer(t)
	u := s.addUser(t, "user7", "rahasia123", domain.RoleUser)
	token := s.tokenFor(t, u)
	e := s.addEvent(t, "Seminar Nasional", "2025-03-03")
	register := fmt.Sprintf("/api/events/%d/register", e.ID)
	cancel := fmt.Sprintf("/api/events/%d/cancel", e.ID)

	w := s.do(http.MethodPost, register, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Berhasil daftar event", decode(t, w)["message"])

	w = s.do(http.MethodPost, register, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Kamu sudah terdaftar di event ini", decode(t, w)["message"])

	w = s.do(http.MethodDelete, cancel, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pendaftaran dibatalkan", decode(t, w)["message"])

	w = s.do(http.MethodDelete, cancel, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Kamu belum daftar event ini", decode(t, w)["message"])
}

func TestRegisterMissingEventAndAuth(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, s.addUser(t, "u", "rahasia123", domain.RoleUser))

	w := s.do(http.MethodPost, "/api/events/999/register", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, msgEventNotFound, decode(t, w)["message"])

	w = s.do(http.MethodPost, "/api/events/999/register", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgMissingToken, decode(t, w)["message"])

	w = s.do(http.MethodPost, "/api/events/999/register", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgInvalidToken, decode(t, w)["message"])
}

func TestRegisterFullEvent(t *testing.T) {
	s := newTestServer(t)
	one := 1
	e, err := s.events.Create(context.Background(), service.EventInput{
		Title: "Kecil", Category: "Lomba", Date: "2025-05-05", StartTime: "08:00", EndTime: "09:00", Location: "Lapangan",
		MaxParticipants: &one,
	})
	require.NoError(t, err)
	path := fmt.Sprintf("/api/events/%d/register", e.ID)

	w := s.do(http.MethodPost, path, s.tokenFor(t, s.addUser(t, "a", "rahasia123", domain.RoleUser)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPost, path, s.tokenFor(t, s.addUser(t, "b", "rahasia123", domain.RoleUser)), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgEventFull, decode(t, w)["message"])
}

func TestMyEvents(t *testing.T) {
	s := newTestServer(t)
	u := s.addUser(t, "dewi", "rahasia123", domain.RoleUser)
	token := s.tokenFor(t, u)
	march := s.addEvent(t, "march", "2025-03-01")
	jan := s.addEvent(t, "jan", "2025-01-01")
	s.addEvent(t, "unregistered", "2025-02-01")

	for _, id := range []int64{march.ID, jan.ID} {
		w := s.do(http.MethodPost, fmt.Sprintf("/api/events/%d/register", id), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.do(http.MethodGet, "/api/events/user/my-events", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	events := decode(t, w)["events"].([]any)
	require.Len(t, events, 2)
	first := events[0].(map[string]any)
	assert.EqualValues(t, jan.ID, first["id"])
	assert.NotEmpty(t, first["registered_at"])
	assert.EqualValues(t, march.ID, events[1].(map[string]any)["id"])

	w = s.do(http.MethodGet, "/api/events/user/my-events", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventRegistrationsForAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := s.tokenFor(t, s.addUser(t, "admin", "rahasia123", domain.RoleAdmin))
	e := s.addEvent(t, "Sidang", "2025-04-04")
	first := s.addUser(t, "first", "rahasia123", domain.RoleUser)
	second := s.addUser(t, "second", "rahasia123", domain.RoleUser)
	for _, u := range []*domain.User{first, second} {
		_, err := s.registrations.Register(context.Background(), u.ID, e.ID)
		require.NoError(t, err)
	}

	w := s.do(http.MethodGet, fmt.Sprintf("/api/events/%d/registrations", e.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	regs := decode(t, w)["registrations"].([]any)
	require.Len(t, regs, 2)
	top := regs[0].(map[string]any)
	assert.EqualValues(t, second.ID, top["id"])
	assert.Equal(t, "second@example.com", top["email"])
	assert.NotEmpty(t, top["registered_at"])

	w = s.do(http.MethodGet, "/api/events/999/registrations", admin, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]string
}

func (f *fakeStorage) PutObject(_ context.Context, _, key, _ string, body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = string(b)
	return nil
}

func (f *fakeStorage) ListObjects(_ context.Context, _, prefix string) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	var out []storage.ObjectInfo
	for k, v := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v)), LastModified: &now})
		}
	}
	return out, nil
}

func (f *fakeStorage) DeletePrefix(_ context.Context, _, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			delete(f.objects, k)
		}
	}
	return nil
}

func (f *fakeStorage) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + ".storage.test/" + key, nil
}

func TestRosterExport(t *testing.T) {
	store := &fakeStorage{objects: map[string]string{}}
	s := newTestServer(t, func(o *Options) {
		o.Rosters = service.NewRosterService(o.Registrations, store, "rosters-bucket", "rosters")
	})
	admin := s.tokenFor(t, s.addUser(t, "admin", "rahasia123", domain.RoleAdmin))
	e := s.addEvent(t, "Webinar", "2025-06-06")
	u := s.addUser(t, "peserta", "rahasia123", domain.RoleUser)
	_, err := s.registrations.Register(context.Background(), u.ID, e.ID)
	require.NoError(t, err)

	w := s.do(http.MethodPost, fmt.Sprintf("/api/events/%d/registrations/export", e.ID), admin, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	key := body["key"].(string)
	assert.Contains(t, store.objects[key], "peserta@example.com")
	assert.Equal(t, "https://rosters-bucket.storage.test/"+key, body["url"])

	w = s.do(http.MethodGet, fmt.Sprintf("/api/events/%d/registrations/exports", e.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	exports := decode(t, w)["exports"].([]any)
	require.Len(t, exports, 1)
	assert.Equal(t, key, exports[0].(map[string]any)["key"])

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/events/%d", e.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.objects)
}

func TestRosterExportWithoutStorage(t *testing.T) {
	s := newTestServer(t)
	admin := s.tokenFor(t, s.addUser(t, "admin", "rahasia123", domain.RoleAdmin))
	e := s.addEvent(t, "x", "2025-06-07")

	w := s.do(http.MethodPost, fmt.Sprintf("/api/events/%d/registrations/export", e.ID), admin, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, msgStorageDisabled, decode(t, w)["message"])
}
