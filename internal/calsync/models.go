// Package calsync pushes synthesized plan events to a calendar provider
// with per-event failure isolation and idempotent deletes.
package calsync

import (
	"context"
	"errors"

	"github.com/circaplan/circaplan/internal/calevent"
)

// Sentinel errors for calendar sync operations.
var (
	// ErrEventNotFound is the provider's 404-equivalent. Providers must
	// translate their own not-found responses to it; deletes treat it as
	// success so repeated sync passes stay idempotent.
	ErrEventNotFound = errors.New("calendar event not found")

	// ErrProviderUnavailable indicates the provider is down or the circuit
	// breaker is open.
	ErrProviderUnavailable = errors.New("calendar provider unavailable")
)

// Provider is the downstream calendar collaborator capability. The network
// protocol behind it is out of this module's hands.
type Provider interface {
	// CreateEvent creates one event and returns the provider's opaque id.
	CreateEvent(ctx context.Context, event *calevent.Event) (string, error)
	// DeleteEvent deletes an event by id, returning ErrEventNotFound when
	// the id is already absent.
	DeleteEvent(ctx context.Context, id string) error
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// SyncError records one isolated per-item failure.
type SyncError struct {
	GroupKey string // grouping key, when the failure happened at synthesis
	EventID  string // provider event id, for delete failures
	Summary  string // event summary, for create failures
	Err      error
}

func (e *SyncError) Error() string {
	switch {
	case e.Summary != "":
		return "creating " + e.Summary + ": " + e.Err.Error()
	case e.EventID != "":
		return "deleting " + e.EventID + ": " + e.Err.Error()
	case e.GroupKey != "":
		return "synthesizing " + e.GroupKey + ": " + e.Err.Error()
	default:
		return e.Err.Error()
	}
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// CreateResult reports partial-success counts for a create batch. There is
// no transactional guarantee across a batch: some events existing and some
// not is a reportable outcome, not a rollback trigger.
type CreateResult struct {
	BatchID  string
	Created  int
	Failed   int
	EventIDs []string
	Errors   []SyncError
}

// DeleteResult reports partial-success counts for a delete pass.
// Already-absent events count as deleted.
type DeleteResult struct {
	Deleted int
	Failed  int
	Errors  []SyncError
}
