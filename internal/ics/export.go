// Package ics serializes synthesized calendar events to iCalendar, for
// provider-agnostic import into any calendar client.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/circaplan/circaplan/internal/calevent"
)

const prodID = "-//CircaPlan//Jet Lag Plan//EN"

// ExportConfig controls how the calendar is rendered.
type ExportConfig struct {
	// CalendarName labels the exported calendar (X-WR-CALNAME). Optional.
	CalendarName string

	// UIDDomain is the domain suffix for generated event UIDs.
	// Default: "circaplan".
	UIDDomain string

	// Now stamps DTSTAMP; the caller supplies it so output stays
	// deterministic. Zero means time.Now is used.
	Now time.Time
}

// Export renders one VEVENT per synthesized event and returns the
// serialized VCALENDAR.
//
// Start and end are emitted as UTC instants, which round-trip correctly
// through any importing client regardless of which zones the plan spans.
// Each event carries its busy/free transparency and a display alarm at its
// reminder lead time.
func Export(events []calevent.Event, cfg ExportConfig) (string, error) {
	if cfg.UIDDomain == "" {
		cfg.UIDDomain = "circaplan"
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	if cfg.CalendarName != "" {
		cal.SetXWRCalName(cfg.CalendarName)
	}

	for i := range events {
		ev := &events[i]
		if ev.Start.IsZero() || ev.End.IsZero() {
			return "", fmt.Errorf("event %q has no time window", ev.Summary)
		}

		ve := cal.AddEvent(uuid.NewString() + "@" + cfg.UIDDomain)
		ve.SetDtStampTime(now.UTC())
		ve.SetStartAt(ev.Start.UTC())
		ve.SetEndAt(ev.End.UTC())
		ve.SetSummary(ev.Summary)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}

		if ev.Transparency == calevent.TransparencyOpaque {
			ve.SetTimeTransparency(ical.TransparencyOpaque)
		} else {
			ve.SetTimeTransparency(ical.TransparencyTransparent)
		}

		alarm := ve.AddAlarm()
		alarm.SetAction(ical.ActionDisplay)
		alarm.SetTrigger(fmt.Sprintf("-PT%dM", ev.ReminderMinutes))
	}

	return cal.Serialize(), nil
}
