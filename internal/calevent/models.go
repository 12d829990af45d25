// Package calevent synthesizes provider-ready calendar events from grouped
// interventions.
package calevent

import (
	"errors"
	"fmt"
	"time"

	"github.com/circaplan/circaplan/internal/plan"
)

// Transparency values follow the iCalendar TRANSP vocabulary.
const (
	TransparencyOpaque      = "opaque"
	TransparencyTransparent = "transparent"
)

// ErrEmptyGroup is returned when synthesis is asked to build an event from
// an empty intervention group. This is a contract violation by the caller,
// never a soft condition.
var ErrEmptyGroup = errors.New("cannot build event from empty interventions")

// ContextError reports an intervention that reached synthesis without its
// resolved timezone or date. Nothing is ever defaulted here: a substituted
// zone or date would silently corrupt the entry's real-world time.
type ContextError struct {
	Field string // "timezone" or "date"
	Type  plan.InterventionType
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("intervention %s: missing %s context", e.Type, e.Field)
}

// Event is one synthesized calendar event, ready for the downstream
// create/delete collaborator. The core never persists these.
type Event struct {
	Summary     string
	Description string

	// Start and End are instants carrying the resolved zone's location.
	Start time.Time
	End   time.Time

	// TimeZone is the resolved IANA zone id, duplicated from the location
	// for wire serialization.
	TimeZone string

	ReminderMinutes int
	Transparency    string
}

// WireEvent is the JSON shape the calendar-provider collaborator consumes.
type WireEvent struct {
	Summary      string        `json:"summary"`
	Description  string        `json:"description"`
	Start        WireDateTime  `json:"start"`
	End          WireDateTime  `json:"end"`
	Reminders    WireReminders `json:"reminders"`
	Transparency string        `json:"transparency"`
}

// WireDateTime pairs an RFC 3339 local timestamp with its zone.
type WireDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// WireReminders carries explicit reminder overrides.
type WireReminders struct {
	UseDefault bool           `json:"useDefault"`
	Overrides  []WireReminder `json:"overrides"`
}

// WireReminder is one reminder override.
type WireReminder struct {
	Method  string `json:"method,omitempty"`
	Minutes int    `json:"minutes"`
}

// Wire renders the event in the collaborator's shape.
func (e *Event) Wire() WireEvent {
	return WireEvent{
		Summary:     e.Summary,
		Description: e.Description,
		Start:       WireDateTime{DateTime: e.Start.Format(time.RFC3339), TimeZone: e.TimeZone},
		End:         WireDateTime{DateTime: e.End.Format(time.RFC3339), TimeZone: e.TimeZone},
		Reminders: WireReminders{
			Overrides: []WireReminder{{Method: "popup", Minutes: e.ReminderMinutes}},
		},
		Transparency: e.Transparency,
	}
}
