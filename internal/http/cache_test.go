package http

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmate/internal/domain"
)

func newCachedServer(t *testing.T) (*testServer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	s := newTestServer(t, func(o *Options) {
		o.Cache = NewResponseCache(rdb, time.Minute, o.Logger)
	})
	return s, mr
}

func TestCacheListHitAndPurge(t *testing.T) {
	s, mr := newCachedServer(t)
	s.addEvent(t, "first", "2025-01-01")

	w := s.do(http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = s.do(http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Len(t, decode(t, w)["events"], 1)
	assert.Len(t, mr.Keys(), 1)

	admin := s.tokenFor(t, s.addUser(t, "admin", "rahasia123", domain.RoleAdmin))
	w = s.do(http.MethodPost, "/api/events", admin, map[string]any{
		"title": "second", "category": "Seminar", "date": "2025-02-02",
		"start_time": "09:00", "end_time": "10:00", "location": "Aula",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Empty(t, mr.Keys())

	w = s.do(http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Len(t, decode(t, w)["events"], 2)
}

func TestCacheItemNormalizesIDAndSkipsErrors(t *testing.T) {
	s, mr := newCachedServer(t)
	e := s.addEvent(t, "only", "2025-01-01")

	w := s.do(http.MethodGet, fmt.Sprintf("/api/events/%d", e.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = s.do(http.MethodGet, fmt.Sprintf("/api/events/00%d", e.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = s.do(http.MethodGet, "/api/events/9999", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, mr.Exists(cacheItemPrefix+"9999"))

	w = s.do(http.MethodGet, "/api/events/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
}

func TestCacheUnavailableFallsThrough(t *testing.T) {
	s, mr := newCachedServer(t)
	s.addEvent(t, "only", "2025-01-01")
	mr.Close()

	w := s.do(http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["events"], 1)
}

func TestNilCachePurgeIsNoop(t *testing.T) {
	var rc *ResponseCache
	assert.NotPanics(t, func() { rc.PurgeEvent(t.Context(), 1) })
}
