package plan

// Traits is the per-type behavior table consulted across the core: event
// length, reminder lead, busy/free classification, grouping and editing
// behavior, and display labels. Keeping the whole mapping in one table
// keeps type behavior centralized and exhaustively checkable.
type Traits struct {
	// Emoji prefixes event titles.
	Emoji string

	// ShortLabel is the compact label used when joining grouped titles.
	// Empty means the type has no mapped short label and is omitted from
	// joined titles.
	ShortLabel string

	// DefaultDurationMin is the event length when no explicit duration is
	// given.
	DefaultDurationMin int

	// AcceptsExplicitDuration marks types whose duration is independently
	// computed upstream; DurationMin overrides the default for these.
	AcceptsExplicitDuration bool

	// ReminderMinutes is the reminder lead time for events of this type.
	ReminderMinutes int

	// Busy marks types that block the calendar slot ("opaque").
	Busy bool

	// Editable marks types that support user-recorded actuals. Advisory
	// types always report their planned time and cascade with whatever
	// parent anchors them.
	Editable bool

	// Actionable marks types that produce calendar events at all.
	Actionable bool

	// Standalone marks types that are never grouped with anything.
	Standalone bool

	// Anchor marks types that nearby interventions can group underneath.
	Anchor bool
}

var traitsByType = map[InterventionType]Traits{
	WakeTarget: {
		Emoji:              "⏰",
		ShortLabel:         "Wake up",
		DefaultDurationMin: 15,
		ReminderMinutes:    0,
		Editable:           true,
		Actionable:         true,
		Anchor:             true,
	},
	SleepTarget: {
		Emoji:              "😴",
		ShortLabel:         "Bedtime",
		DefaultDurationMin: 15,
		ReminderMinutes:    30,
		Editable:           true,
		Actionable:         true,
		Anchor:             true,
	},
	Melatonin: {
		Emoji:              "💊",
		ShortLabel:         "Melatonin",
		DefaultDurationMin: 15,
		ReminderMinutes:    10,
		Editable:           true,
		Actionable:         true,
	},
	LightSeek: {
		Emoji:                   "☀️",
		ShortLabel:              "Light",
		DefaultDurationMin:      15,
		AcceptsExplicitDuration: true,
		ReminderMinutes:         10,
		Actionable:              true,
	},
	LightAvoid: {
		Emoji:                   "🕶️",
		ShortLabel:              "Avoid light",
		DefaultDurationMin:      15,
		AcceptsExplicitDuration: true,
		ReminderMinutes:         10,
		Actionable:              true,
		Standalone:              true,
	},
	CaffeineOK: {
		Emoji:              "☕",
		DefaultDurationMin: 15,
		ReminderMinutes:    10,
	},
	CaffeineCutoff: {
		Emoji:              "🚫",
		ShortLabel:         "Last caffeine",
		DefaultDurationMin: 15,
		ReminderMinutes:    30,
		Actionable:         true,
		Standalone:         true,
	},
	Exercise: {
		Emoji:              "🏃",
		ShortLabel:         "Exercise",
		DefaultDurationMin: 45,
		ReminderMinutes:    30,
		Busy:               true,
		Editable:           true,
		Actionable:         true,
		Standalone:         true,
	},
	NapWindow: {
		Emoji:                   "💤",
		ShortLabel:              "Nap",
		DefaultDurationMin:      15,
		AcceptsExplicitDuration: true,
		ReminderMinutes:         10,
		Busy:                    true,
		Editable:                true,
		Actionable:              true,
		Standalone:              true,
	},
}

// Traits returns the behavior table entry for t. Unknown types get a zero
// entry: not actionable, so they never reach event synthesis.
func (t InterventionType) Traits() Traits {
	return traitsByType[t]
}

// Duration returns the resolved event length in minutes for iv: the
// explicit duration for types that accept one, otherwise the type default.
func (iv Intervention) Duration() int {
	tr := iv.Type.Traits()
	if tr.AcceptsExplicitDuration && iv.DurationMin != nil && *iv.DurationMin > 0 {
		return *iv.DurationMin
	}
	if tr.DefaultDurationMin > 0 {
		return tr.DefaultDurationMin
	}
	return 15
}
