// Package actuals reconciles the planned schedule with user-recorded
// outcomes: modified times, skipped items, and the parent/child nesting
// that grouped rendering and sync rely on.
package actuals

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/circaplan/circaplan/internal/plan"
)

// Status classifies a recorded actual.
type Status string

const (
	StatusAsPlanned Status = "as_planned"
	StatusModified  Status = "modified"
	StatusSkipped   Status = "skipped"
)

// Actual is a user's recorded deviation from plan for one (day, type) pair.
// Actuals are written only by explicit user action and survive plan
// regeneration; an actual referencing a day/type combination no longer in
// the schedule is simply unused.
type Actual struct {
	DayOffset   int                   `json:"dayOffset"`
	Type        plan.InterventionType `json:"interventionType"`
	PlannedTime string                `json:"plannedTime"`
	ActualTime  string                `json:"actualTime,omitempty"`
	Status      Status                `json:"status"`
}

// Key addresses at most one Actual per (day, type) pair.
type Key struct {
	DayOffset int
	Type      plan.InterventionType
}

// ErrInvalidKey indicates a wire key that does not parse as
// "{dayOffset}:{interventionType}".
var ErrInvalidKey = errors.New("invalid actual key")

// String renders the "{dayOffset}:{interventionType}" wire form.
func (k Key) String() string {
	return strconv.Itoa(k.DayOffset) + ":" + string(k.Type)
}

// ParseKey parses the wire form back into a Key. Day offsets can be
// negative (preparation days).
func ParseKey(s string) (Key, error) {
	i := strings.Index(s, ":")
	if i < 1 || i == len(s)-1 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	day, err := strconv.Atoi(s[:i])
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key{DayOffset: day, Type: plan.InterventionType(s[i+1:])}, nil
}

// Lookup is a read-only view of recorded actuals keyed by (day, type).
type Lookup map[Key]Actual

// Get returns the actual recorded for the given day and type, if any.
func (l Lookup) Get(dayOffset int, t plan.InterventionType) (Actual, bool) {
	a, ok := l[Key{DayOffset: dayOffset, Type: t}]
	return a, ok
}

// ptr returns a pointer view for the reconciliation functions, nil when no
// actual is recorded.
func (l Lookup) ptr(dayOffset int, t plan.InterventionType) *Actual {
	if a, ok := l.Get(dayOffset, t); ok {
		return &a
	}
	return nil
}

// LookupFromWire converts the string-keyed map served by the persistence
// collaborator into a typed Lookup. Unparseable keys are dropped: a stale
// or mangled actual is advisory, never an error.
func LookupFromWire(wire map[string]Actual) Lookup {
	l := make(Lookup, len(wire))
	for raw, a := range wire {
		key, err := ParseKey(raw)
		if err != nil {
			continue
		}
		l[key] = a
	}
	return l
}

// Store is the seam to the user-actuals collaborator. The core reads
// through it and never writes.
type Store interface {
	Get(ctx context.Context, key Key) (Actual, bool, error)
	All(ctx context.Context) (Lookup, error)
}

// InMemoryStore is an in-memory Store for tests and embedding applications
// that keep actuals in process.
type InMemoryStore struct {
	mu      sync.RWMutex
	actuals Lookup
}

// NewInMemoryStore creates a store seeded with the given actuals.
func NewInMemoryStore(initial Lookup) *InMemoryStore {
	actuals := make(Lookup, len(initial))
	for k, v := range initial {
		actuals[k] = v
	}
	return &InMemoryStore{actuals: actuals}
}

// Get retrieves one actual by key.
func (s *InMemoryStore) Get(_ context.Context, key Key) (Actual, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actuals[key]
	return a, ok, nil
}

// All returns a copy of every recorded actual.
func (s *InMemoryStore) All(_ context.Context) (Lookup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Lookup, len(s.actuals))
	for k, v := range s.actuals {
		out[k] = v
	}
	return out, nil
}

// Record creates or overwrites an actual. It exists for the writing side of
// the collaborator (user action handlers); the reconciliation core never
// calls it.
func (s *InMemoryStore) Record(_ context.Context, a Actual) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actuals[Key{DayOffset: a.DayOffset, Type: a.Type}] = a
	return nil
}
