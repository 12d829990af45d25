package calevent

import (
	"fmt"
	"strings"
	"time"

	"github.com/circaplan/circaplan/internal/plan"
)

// attributionFooter is appended to every event description after a blank
// line. Consumers diff synthesized events against previously-created ones,
// so the exact text is part of the output contract.
const attributionFooter = "Planned with CircaPlan"

// Build synthesizes one calendar event from a non-empty group of
// interventions sharing a time context.
//
// The event's zone and calendar date are resolved strictly from the
// phase-paired context of the title anchor: origin zone and origin date for
// pre-flight phases, destination otherwise. Because the date always comes
// from the same local calendar as the displayed clock time, every dateline
// topology (next-day arrival, same-day arrival, previous-day arrival) is
// correct without any date arithmetic.
func Build(group []plan.Intervention) (*Event, error) {
	if len(group) == 0 {
		return nil, ErrEmptyGroup
	}

	for _, iv := range group {
		if iv.DisplayZone() == "" {
			return nil, &ContextError{Field: "timezone", Type: iv.Type}
		}
		if iv.DisplayDate() == "" {
			return nil, &ContextError{Field: "date", Type: iv.Type}
		}
	}

	anchorIdx := anchorIndex(group)
	anchor := group[anchorIdx]

	start, err := startTime(anchor)
	if err != nil {
		return nil, err
	}
	duration := maxDuration(group)

	return &Event{
		Summary:         summary(group, anchorIdx),
		Description:     description(group),
		Start:           start,
		End:             start.Add(time.Duration(duration) * time.Minute),
		TimeZone:        anchor.DisplayZone(),
		ReminderMinutes: anchor.Type.Traits().ReminderMinutes,
		Transparency:    transparency(group),
	}, nil
}

// anchorIndex picks the member that supplies title, reminder, and time
// context: wake over sleep over melatonin, else the first member.
func anchorIndex(group []plan.Intervention) int {
	for _, want := range []plan.InterventionType{plan.WakeTarget, plan.SleepTarget, plan.Melatonin} {
		for i, iv := range group {
			if iv.Type == want {
				return i
			}
		}
	}
	return 0
}

func startTime(iv plan.Intervention) (time.Time, error) {
	loc, err := time.LoadLocation(iv.DisplayZone())
	if err != nil {
		return time.Time{}, fmt.Errorf("loading zone %q: %w", iv.DisplayZone(), err)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", iv.DisplayDate()+" "+iv.DisplayTime(), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing event start: %w", err)
	}
	return t, nil
}

func summary(group []plan.Intervention, anchorIdx int) string {
	anchor := group[anchorIdx]
	tr := anchor.Type.Traits()
	if len(group) == 1 {
		return tr.Emoji + " " + anchor.Title
	}

	label := tr.ShortLabel
	if label == "" {
		label = anchor.Title
	}

	var shorts []string
	for i, iv := range group {
		if i == anchorIdx {
			continue
		}
		// Members without a mapped short label are omitted, not an error.
		if s := iv.Type.Traits().ShortLabel; s != "" {
			shorts = append(shorts, s)
		}
	}
	if len(shorts) == 0 {
		return tr.Emoji + " " + label
	}
	return tr.Emoji + " " + label + ": " + strings.Join(shorts, " + ")
}

func description(group []plan.Intervention) string {
	var b strings.Builder
	if len(group) == 1 {
		b.WriteString(group[0].Description)
	} else {
		for i, iv := range group {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("• ")
			b.WriteString(iv.Description)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(attributionFooter)
	return b.String()
}

// maxDuration keeps a long light-seeking window from being truncated by a
// co-located short wake reminder.
func maxDuration(group []plan.Intervention) int {
	longest := 0
	for _, iv := range group {
		if d := iv.Duration(); d > longest {
			longest = d
		}
	}
	return longest
}

func transparency(group []plan.Intervention) string {
	for _, iv := range group {
		if iv.Type.Traits().Busy {
			return TransparencyOpaque
		}
	}
	return TransparencyTransparent
}
