// Package calendars stores calendar definitions and exposes the almanac
// engine over the REST API: storytime/date conversion, display formatting,
// holiday lookups, and time arithmetic. Each stored calendar gets one
// engine instance, rebuilt whenever its definition changes.
package calendars

import (
	"time"

	"github.com/keyxmakerx/almanac/internal/almanac"
)

// Calendar is a stored calendar definition. The engine-facing Config is
// persisted as a JSON document; the surrounding columns exist for listing
// and lookup.
type Calendar struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Config      almanac.Config `json:"config"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateCalendarInput is the validated input for creating a calendar.
type CreateCalendarInput struct {
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Config      almanac.Config `json:"config"`
}

// UpdateCalendarInput is the validated input for replacing a calendar's
// definition.
type UpdateCalendarInput struct {
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Config      almanac.Config `json:"config"`
}

// ConvertTimeResult pairs a parsed date with its rendered forms.
type ConvertTimeResult struct {
	Time      almanac.StoryTime `json:"time"`
	Date      almanac.Date      `json:"date"`
	Display   string            `json:"display"`
	Short     string            `json:"short"`
	Holiday   string            `json:"holiday,omitempty"`
}

// DateInput carries the caller-side fields of a date for the inverse
// conversion. Subdivision positions are a derived view and are not
// accepted as input.
type DateInput struct {
	Year      int `json:"year"`
	DayOfYear int `json:"day_of_year"`
	Hour      int `json:"hour"`
	Minute    int `json:"minute"`
}

// AgeResult is a formatted age between two story times.
type AgeResult struct {
	Years     float64 `json:"years"`
	Formatted string  `json:"formatted"`
}
