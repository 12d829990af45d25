package ics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/circaplan/circaplan/internal/calevent"
	"github.com/circaplan/circaplan/internal/ics"
)

func singaporeEvent(t *testing.T) calevent.Event {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Singapore")
	if err != nil {
		t.Fatal(err)
	}
	start := time.Date(2026, 1, 23, 5, 40, 0, 0, loc)
	return calevent.Event{
		Summary:         "☀️ Get bright light",
		Description:     "Seek bright light after landing\n\nPlanned with CircaPlan",
		Start:           start,
		End:             start.Add(30 * time.Minute),
		TimeZone:        "Asia/Singapore",
		ReminderMinutes: 10,
		Transparency:    calevent.TransparencyTransparent,
	}
}

func TestExport(t *testing.T) {
	out, err := ics.Export([]calevent.Event{singaporeEvent(t)}, ics.ExportConfig{
		CalendarName: "Jet Lag Plan",
		Now:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:☀️ Get bright light",
		// 05:40 Singapore is 21:40 UTC the previous day.
		"DTSTART:20260122T214000Z",
		"DTEND:20260122T221000Z",
		"TRANSP:TRANSPARENT",
		"BEGIN:VALARM",
		"TRIGGER:-PT10M",
		"ACTION:DISPLAY",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized calendar missing %q\n%s", want, out)
		}
	}
}

func TestExport_OpaqueTransparency(t *testing.T) {
	ev := singaporeEvent(t)
	ev.Transparency = calevent.TransparencyOpaque

	out, err := ics.Export([]calevent.Event{ev}, ics.ExportConfig{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(out, "TRANSP:OPAQUE") {
		t.Error("busy events should serialize as OPAQUE")
	}
}

func TestExport_RejectsZeroTimeWindow(t *testing.T) {
	if _, err := ics.Export([]calevent.Event{{Summary: "broken"}}, ics.ExportConfig{}); err == nil {
		t.Error("expected error for an event without a time window")
	}
}

func TestExport_EmptyCalendar(t *testing.T) {
	out, err := ics.Export(nil, ics.ExportConfig{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Errorf("empty plan should still serialize a calendar shell:\n%s", out)
	}
}
