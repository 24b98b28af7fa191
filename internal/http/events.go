package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventmate/internal/service"
)

type eventRequest struct {
	Title           string      `json:"title"`
	Category        string      `json:"category"`
	Date            string      `json:"date"`
	StartTime       string      `json:"start_time"`
	EndTime         string      `json:"end_time"`
	Location        string      `json:"location"`
	Description     string      `json:"description"`
	Price           optionalInt `json:"price"`
	MaxParticipants optionalInt `json:"max_participants"`
}

func (r eventRequest) input() service.EventInput {
	return service.EventInput{
		Title:           r.Title,
		Category:        r.Category,
		Date:            r.Date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Location:        r.Location,
		Description:     r.Description,
		Price:           r.Price.int64Ptr(),
		MaxParticipants: r.MaxParticipants.intPtr(),
	}
}

func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = eventToResponse(events[i])
	}
	c.JSON(http.StatusOK, gin.H{"events": resp})
}

func (h *Handler) getEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": eventToResponse(*event)})
}

func (h *Handler) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	event, err := h.events.Create(c.Request.Context(), req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.cache.PurgeEvent(c.Request.Context(), event.ID)

	c.JSON(http.StatusCreated, gin.H{"message": "Event created", "event": eventToResponse(*event)})
}

func (h *Handler) updateEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	event, err := h.events.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.cache.PurgeEvent(c.Request.Context(), id)

	c.JSON(http.StatusOK, gin.H{"message": "Event updated", "event": eventToResponse(*event)})
}

func (h *Handler) deleteEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	h.cache.PurgeEvent(c.Request.Context(), id)

	resp := gin.H{"message": "Event deleted"}
	if h.rosters != nil {
		purgeCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		if err := h.rosters.PurgeEvent(purgeCtx, id); err != nil {
			h.logger.WithError(err).WithField("event_id", id).Warn("purge roster exports")
			resp["warnings"] = []string{"roster exports were not removed"}
		}
	}
	c.JSON(http.StatusOK, resp)
}
