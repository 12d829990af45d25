// Package timeofday provides wall-clock arithmetic on "HH:MM" strings.
//
// Times here carry no date and no zone; callers own both. The one piece of
// domain knowledge is the late-night bedtime adjustment, which makes an
// after-midnight bedtime sort as the last event of its nominal day instead
// of the first.
package timeofday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	minutesPerDay  = 24 * 60
	halfDayMinutes = 12 * 60

	// lateNightCutoffHour bounds the hours treated as "still last night"
	// for bedtimes. A 01:00 bedtime closes out the previous day; a 06:00
	// bedtime does not.
	lateNightCutoffHour = 6
)

// ErrInvalidTime indicates input that is not a valid "HH:MM" clock time.
var ErrInvalidTime = errors.New("invalid HH:MM time")

// Minutes parses an "HH:MM" string into minutes since midnight (0-1439).
func Minutes(hhmm string) (int, error) {
	h, m, ok := split(hhmm)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return h*60 + m, nil
}

// SortableMinutes converts hhmm into a value that orders events within a
// day. Malformed input sorts first (0). When lateNightBedtime is set and
// the hour is before 06:00, a full day is added so the bedtime lands after
// every same-day event. Only sleep targets get this treatment; a 04:00
// wake-up is morning, not late night.
func SortableMinutes(hhmm string, lateNightBedtime bool) int {
	h, m, ok := split(hhmm)
	if !ok {
		return 0
	}
	v := h*60 + m
	if lateNightBedtime && h < lateNightCutoffHour {
		v += minutesPerDay
	}
	return v
}

// Deviation returns actual minus planned in minutes, wrapped across
// midnight so the result assumes the true deviation is the smaller of the
// two wrap-around candidates. Exactly twelve hours apart resolves to the
// unadjusted difference; that boundary is relied upon by callers and must
// not change.
func Deviation(planned, actual string) int {
	p := SortableMinutes(planned, false)
	a := SortableMinutes(actual, false)
	d := a - p
	switch {
	case d < -halfDayMinutes:
		d += minutesPerDay
	case d > halfDayMinutes:
		d -= minutesPerDay
	}
	return d
}

// FormatMinutes renders minutes since midnight as "HH:MM", wrapping at
// 24 hours in either direction.
func FormatMinutes(m int) string {
	m %= minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func split(hhmm string) (hour, minute int, ok bool) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
