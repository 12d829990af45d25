// Package merge folds the upstream scheduler's per-phase schedule fragments
// into one coherent timeline per calendar date.
package merge

import (
	"sort"

	"github.com/circaplan/circaplan/internal/plan"
)

// Days merges phase fragments into exactly one DaySchedule per unique date.
//
// Fragments are first ordered by phase so a date that carries both the end
// of one phase and the start of the next (a westbound same-day arrival)
// concatenates in trip order. Each merged day keeps the earliest day offset
// seen for its date. Days with no fragments never appear: the calendar is
// derived entirely from fragment dates.
func Days(fragments []plan.DaySchedule) []plan.DaySchedule {
	if len(fragments) == 0 {
		return nil
	}

	ordered := make([]plan.DaySchedule, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PhaseType.Order() < ordered[j].PhaseType.Order()
	})

	type bucket struct {
		day       int
		items     []plan.Intervention
		phases    map[plan.PhaseType]bool
		lastPhase plan.PhaseType
		fragments int
	}

	buckets := make(map[string]*bucket)
	dates := make([]string, 0, len(ordered))
	for _, f := range ordered {
		b, ok := buckets[f.Date]
		if !ok {
			b = &bucket{day: f.Day, phases: make(map[plan.PhaseType]bool)}
			buckets[f.Date] = b
			dates = append(dates, f.Date)
		}
		if f.Day < b.day {
			b.day = f.Day
		}
		b.items = append(b.items, f.Items...)
		b.phases[f.PhaseType] = true
		b.lastPhase = f.PhaseType
		b.fragments++
	}

	// Same-day arrival is trip-global: one date carrying both the
	// pre-departure and post-arrival legs flips the flag on every day, so
	// downstream day labeling shifts consistently.
	sameDayArrival := false
	for _, b := range buckets {
		if b.phases[plan.PreDeparture] && b.phases[plan.PostArrival] {
			sameDayArrival = true
			break
		}
	}

	sort.Strings(dates) // ISO dates order lexically

	days := make([]plan.DaySchedule, 0, len(dates))
	for _, date := range dates {
		b := buckets[date]
		items := make([]plan.Intervention, len(b.items))
		copy(items, b.items)
		sortItems(items)

		day := plan.DaySchedule{
			Day:               b.day,
			Date:              date,
			Items:             items,
			HasSameDayArrival: sameDayArrival,
		}
		if b.fragments == 1 {
			day.PhaseType = b.lastPhase
		}
		days = append(days, day)
	}
	return days
}

// sortItems orders one date's timeline. Items from different phases keep
// the phase-order concatenation. Within a phase, in-flight items order by
// hours since departure when both carry it; everything else orders by the
// phase-appropriate display time.
func sortItems(items []plan.Intervention) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.PhaseType.Order() != b.PhaseType.Order() {
			return a.PhaseType.Order() < b.PhaseType.Order()
		}
		if a.FlightOffsetHours != nil && b.FlightOffsetHours != nil {
			return *a.FlightOffsetHours < *b.FlightOffsetHours
		}
		return a.SortKey() < b.SortKey()
	})
}
