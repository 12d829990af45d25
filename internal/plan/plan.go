// Package plan defines the intervention model produced by the upstream
// circadian scheduler and consumed by the merging, grouping, and event
// synthesis layers.
package plan

import "github.com/circaplan/circaplan/internal/timeofday"

// InterventionType is the closed set of recommended actions.
type InterventionType string

const (
	WakeTarget     InterventionType = "wake_target"
	SleepTarget    InterventionType = "sleep_target"
	Melatonin      InterventionType = "melatonin"
	LightSeek      InterventionType = "light_seek"
	LightAvoid     InterventionType = "light_avoid"
	CaffeineOK     InterventionType = "caffeine_ok"
	CaffeineCutoff InterventionType = "caffeine_cutoff"
	Exercise       InterventionType = "exercise"
	NapWindow      InterventionType = "nap_window"
)

// PhaseType identifies the trip leg an intervention belongs to. The phase
// decides which of the two timezone contexts is authoritative for display.
type PhaseType string

const (
	Preparation  PhaseType = "preparation"
	PreDeparture PhaseType = "pre_departure"
	InTransit    PhaseType = "in_transit"
	InTransitULR PhaseType = "in_transit_ulr"
	PostArrival  PhaseType = "post_arrival"
	Adaptation   PhaseType = "adaptation"
)

// Order returns the phase's position in the trip. The two in-transit
// variants share a slot: ultra-long-range is a flavor of in_transit, not a
// later phase.
func (p PhaseType) Order() int {
	switch p {
	case Preparation:
		return 0
	case PreDeparture:
		return 1
	case InTransit, InTransitULR:
		return 2
	case PostArrival:
		return 3
	case Adaptation:
		return 4
	default:
		return 5
	}
}

// UsesOriginContext reports whether the origin time/date/zone triple is the
// display context for this phase. Once the traveler boards, the destination
// clock is authoritative.
func (p PhaseType) UsesOriginContext() bool {
	return p == Preparation || p == PreDeparture
}

// InFlight reports whether the phase is one of the in-transit variants.
func (p PhaseType) InFlight() bool {
	return p == InTransit || p == InTransitULR
}

// Intervention is one recommended action at one physical instant, expressed
// in both the origin and destination local calendars. After enrichment by
// the upstream scheduler the two time/date/zone triples are always jointly
// present; this layer never fills one in from the other.
type Intervention struct {
	Type        InterventionType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`

	OriginTime string `json:"origin_time"` // HH:MM
	DestTime   string `json:"dest_time"`   // HH:MM
	OriginDate string `json:"origin_date"` // YYYY-MM-DD
	DestDate   string `json:"dest_date"`   // YYYY-MM-DD
	OriginTZ   string `json:"origin_tz"`   // IANA zone id
	DestTZ     string `json:"dest_tz"`     // IANA zone id

	PhaseType        PhaseType `json:"phase_type"`
	ShowDualTimezone bool      `json:"show_dual_timezone,omitempty"`

	// DurationMin is an explicit event length; absent means the
	// type-specific default applies.
	DurationMin *int `json:"duration_min,omitempty"`

	// FlightOffsetHours is present only for in-transit items: hours since
	// departure, used for in-flight ordering instead of wall-clock time.
	FlightOffsetHours *float64 `json:"flight_offset_hours,omitempty"`
}

// DisplayTime returns the phase-appropriate clock time.
func (iv Intervention) DisplayTime() string {
	if iv.PhaseType.UsesOriginContext() {
		return iv.OriginTime
	}
	return iv.DestTime
}

// DisplayDate returns the calendar date paired with DisplayTime. The date
// always comes from the same local calendar as the displayed time, which is
// what keeps dateline crossings correct without any date arithmetic.
func (iv Intervention) DisplayDate() string {
	if iv.PhaseType.UsesOriginContext() {
		return iv.OriginDate
	}
	return iv.DestDate
}

// DisplayZone returns the IANA zone id paired with DisplayTime.
func (iv Intervention) DisplayZone() string {
	if iv.PhaseType.UsesOriginContext() {
		return iv.OriginTZ
	}
	return iv.DestTZ
}

// SortKey returns the intervention's ordering position within its display
// day. Sleep targets after midnight sort as the last events of their
// nominal day.
func (iv Intervention) SortKey() int {
	return timeofday.SortableMinutes(iv.DisplayTime(), iv.Type == SleepTarget)
}

// DaySchedule is one calendar date's bucket of interventions.
type DaySchedule struct {
	// Day is the signed offset from departure day. When several phase
	// fragments share a date, the merged day keeps the earliest offset.
	Day   int            `json:"day"`
	Date  string         `json:"date"` // YYYY-MM-DD
	Items []Intervention `json:"items"`

	// PhaseType is set only on unmerged single-phase fragments.
	PhaseType PhaseType `json:"phase_type,omitempty"`

	// HasSameDayArrival is trip-global: once any date carries both a
	// pre-departure and a post-arrival fragment, every day of the trip
	// reports it. Day labeling depends on this.
	HasSameDayArrival bool `json:"hasSameDayArrival,omitempty"`
}
