package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestUserHandlersRejectMissingClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(Options{})

	handlers := map[string]gin.HandlerFunc{
		"register":  h.registerForEvent,
		"cancel":    h.cancelRegistration,
		"my-events": h.myEvents,
		"me":        h.me,
		"update-me": h.updateMe,
	}
	for name, fn := range handlers {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Params = gin.Params{{Key: "id", Value: "1"}}

			assert.NotPanics(t, func() { fn(c) })
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}
