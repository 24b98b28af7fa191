package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventmate/internal/service"
)

func (h *Handler) registerForEvent(c *gin.Context) {
	claims, ok := authClaims(c)
	if !ok {
		return
	}
	id, ok := eventID(c)
	if !ok {
		return
	}

	if _, err := h.registrations.Register(c.Request.Context(), claims.UserID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Berhasil daftar event"})
}

func (h *Handler) cancelRegistration(c *gin.Context) {
	claims, ok := authClaims(c)
	if !ok {
		return
	}
	id, ok := eventID(c)
	if !ok {
		return
	}

	if err := h.registrations.Cancel(c.Request.Context(), claims.UserID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pendaftaran dibatalkan"})
}

func (h *Handler) myEvents(c *gin.Context) {
	claims, ok := authClaims(c)
	if !ok {
		return
	}
	events, err := h.registrations.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = registeredEventToResponse(events[i])
	}
	c.JSON(http.StatusOK, gin.H{"events": resp})
}

func (h *Handler) eventRegistrations(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	participants, err := h.registrations.ListForEvent(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]ParticipantResponse, len(participants))
	for i := range participants {
		resp[i] = participantToResponse(participants[i])
	}
	c.JSON(http.StatusOK, gin.H{"registrations": resp})
}

func (h *Handler) exportRoster(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if h.rosters == nil {
		h.writeError(c, service.ErrStorageDisabled)
		return
	}

	export, err := h.rosters.Export(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": export.Key, "url": export.URL})
}

func (h *Handler) listRosterExports(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if h.rosters == nil {
		h.writeError(c, service.ErrStorageDisabled)
		return
	}

	objects, err := h.rosters.ListExports(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i, obj := range objects {
		resp[i] = StorageObjectResponse{Key: obj.Key, Size: obj.Size}
		if obj.LastModified != nil && !obj.LastModified.IsZero() {
			v := obj.LastModified.UTC().Format(time.RFC3339)
			resp[i].LastModified = &v
		}
	}
	c.JSON(http.StatusOK, gin.H{"exports": resp})
}
