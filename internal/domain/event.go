package domain

import (
	"fmt"
	"time"
)

// Category classifies an event. Only the values in Categories are accepted.
type Category string

const (
	CategorySeminar             Category = "Seminar"
	CategoryWorkshop            Category = "Workshop"
	CategoryLomba               Category = "Lomba"
	CategoryWebinar             Category = "Webinar"
	CategorySeminarKerjaPraktik Category = "Seminar Kerja Praktik"
	CategorySeminarProposal     Category = "Seminar Proposal"
	CategorySidangTerbuka       Category = "Sidang Terbuka"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategorySeminar,
	CategoryWorkshop,
	CategoryLomba,
	CategoryWebinar,
	CategorySeminarKerjaPraktik,
	CategorySeminarProposal,
	CategorySidangTerbuka,
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

const (
	// DateLayout is the canonical calendar date representation.
	DateLayout = "2006-01-02"
	// ClockLayout is the canonical time of day representation.
	ClockLayout = "15:04"
)

// Event is something users can register for.
type Event struct {
	ID              int64
	Title           string
	Category        Category
	Date            time.Time // UTC midnight of the calendar day
	StartTime       string
	EndTime         string
	Location        string
	Description     string
	Price           *int64
	MaxParticipants *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders t in the canonical calendar date representation.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
