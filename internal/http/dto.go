package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventmate/internal/domain"
)

// optionalInt accepts a JSON number, a numeric string, an empty string or null.
// The mobile client sends numeric form fields as strings.
type optionalInt struct {
	Value *int64
}

func (o *optionalInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			o.Value = nil
			return nil
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", string(b))
	}
	o.Value = &v
	return nil
}

func (o optionalInt) int64Ptr() *int64 {
	return o.Value
}

func (o optionalInt) intPtr() *int {
	if o.Value == nil {
		return nil
	}
	v := int(*o.Value)
	return &v
}

type UserResponse struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

type EventResponse struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Location        string  `json:"location"`
	Description     string  `json:"description"`
	Price           *int64  `json:"price"`
	MaxParticipants *int    `json:"max_participants"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	RegisteredAt    *string `json:"registered_at,omitempty"`
}

func eventToResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Category:        string(e.Category),
		Date:            domain.FormatDate(e.Date),
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Location:        e.Location,
		Description:     e.Description,
		Price:           e.Price,
		MaxParticipants: e.MaxParticipants,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func registeredEventToResponse(r domain.RegisteredEvent) EventResponse {
	resp := eventToResponse(r.Event)
	v := r.RegisteredAt.UTC().Format(time.RFC3339)
	resp.RegisteredAt = &v
	return resp
}

type ParticipantResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}

func participantToResponse(p domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:           p.UserID,
		Name:         p.Name,
		Username:     p.Username,
		Email:        p.Email,
		RegisteredAt: p.RegisteredAt.UTC().Format(time.RFC3339),
	}
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}
