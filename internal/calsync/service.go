package calsync

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/circaplan/circaplan/internal/calevent"
	"github.com/circaplan/circaplan/internal/density"
	"github.com/circaplan/circaplan/internal/merge"
	"github.com/circaplan/circaplan/internal/plan"
)

const instrumentationName = "github.com/circaplan/circaplan/internal/calsync"

// ServiceConfig holds configuration for the sync service.
type ServiceConfig struct {
	// Provider is the downstream calendar collaborator (required).
	Provider Provider

	// Logger for sync operations.
	Logger zerolog.Logger

	// Concurrency is the number of parallel event creations (default: 4).
	Concurrency int

	// Tracer for batch spans. If nil, the global tracer is used.
	Tracer trace.Tracer

	// Meter for sync counters. If nil, no counters are recorded.
	Meter metric.Meter
}

// Service pushes synthesized events to the calendar provider.
type Service struct {
	provider    Provider
	logger      zerolog.Logger
	concurrency int
	tracer      trace.Tracer

	createdCounter metric.Int64Counter
	failedCounter  metric.Int64Counter
}

// NewService creates a new sync service.
func NewService(cfg ServiceConfig) *Service {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}

	s := &Service{
		provider:    cfg.Provider,
		logger:      cfg.Logger,
		concurrency: concurrency,
		tracer:      tracer,
	}

	if cfg.Meter != nil {
		s.createdCounter, _ = cfg.Meter.Int64Counter("circaplan.sync.events_created")
		s.failedCounter, _ = cfg.Meter.Int64Counter("circaplan.sync.events_failed")
	}

	return s
}

// CreateEvents pushes events to the provider concurrently. One event's
// failure never aborts its siblings; the result carries aggregate counts
// plus one recorded error per failed event. Created ids arrive in
// completion order: no ordering guarantee exists between independently
// created events.
func (s *Service) CreateEvents(ctx context.Context, events []*calevent.Event) *CreateResult {
	result := &CreateResult{BatchID: uuid.NewString()}
	if len(events) == 0 {
		return result
	}

	ctx, span := s.tracer.Start(ctx, "calsync.create_events")
	defer span.End()

	type itemResult struct {
		id      string
		summary string
		err     error
	}

	jobs := make(chan *calevent.Event, len(events))
	results := make(chan itemResult, len(events))

	workers := s.concurrency
	if workers > len(events) {
		workers = len(events)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range jobs {
				id, err := s.provider.CreateEvent(ctx, ev)
				results <- itemResult{id: id, summary: ev.Summary, err: err}
			}
		}()
	}

	for _, ev := range events {
		jobs <- ev
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, SyncError{Summary: r.summary, Err: r.err})
			s.logger.Warn().
				Err(r.err).
				Str("summary", r.summary).
				Str("provider", s.provider.Name()).
				Msg("event creation failed")
			continue
		}
		result.Created++
		result.EventIDs = append(result.EventIDs, r.id)
	}

	s.recordCounts(ctx, result.Created, result.Failed)
	span.SetAttributes(
		attribute.Int("events.created", result.Created),
		attribute.Int("events.failed", result.Failed),
	)

	s.logger.Info().
		Str("batch_id", result.BatchID).
		Str("provider", s.provider.Name()).
		Int("created", result.Created).
		Int("failed", result.Failed).
		Msg("calendar create batch completed")

	return result
}

// DeleteEvents removes previously-created events by id. A not-found
// response means the event is already gone and counts as deleted, keeping
// repeated sync passes idempotent.
func (s *Service) DeleteEvents(ctx context.Context, ids []string) *DeleteResult {
	result := &DeleteResult{}
	if len(ids) == 0 {
		return result
	}

	ctx, span := s.tracer.Start(ctx, "calsync.delete_events")
	defer span.End()

	for _, id := range ids {
		err := s.provider.DeleteEvent(ctx, id)
		switch {
		case err == nil:
			result.Deleted++
		case errors.Is(err, ErrEventNotFound):
			s.logger.Debug().Str("event_id", id).Msg("event already deleted")
			result.Deleted++
		default:
			result.Failed++
			result.Errors = append(result.Errors, SyncError{EventID: id, Err: err})
			s.logger.Warn().
				Err(err).
				Str("event_id", id).
				Str("provider", s.provider.Name()).
				Msg("event deletion failed")
		}
	}

	span.SetAttributes(
		attribute.Int("events.deleted", result.Deleted),
		attribute.Int("events.failed", result.Failed),
	)

	s.logger.Info().
		Str("provider", s.provider.Name()).
		Int("deleted", result.Deleted).
		Int("failed", result.Failed).
		Msg("calendar delete batch completed")

	return result
}

// SyncDay groups one merged day's interventions, synthesizes one event per
// group, and pushes them. A group that fails synthesis counts as a failed
// event alongside provider failures; no malformed event is ever sent.
func (s *Service) SyncDay(ctx context.Context, day plan.DaySchedule) *CreateResult {
	groups := density.Groups(day.Items)

	events := make([]*calevent.Event, 0, len(groups))
	var buildErrors []SyncError
	for _, g := range groups {
		ev, err := calevent.Build(g.Items)
		if err != nil {
			buildErrors = append(buildErrors, SyncError{GroupKey: g.Key.String(), Err: err})
			s.logger.Error().
				Err(err).
				Str("group", g.Key.String()).
				Str("date", day.Date).
				Msg("event synthesis failed")
			continue
		}
		events = append(events, ev)
	}

	result := s.CreateEvents(ctx, events)
	result.Failed += len(buildErrors)
	result.Errors = append(result.Errors, buildErrors...)
	if len(buildErrors) > 0 {
		s.recordCounts(ctx, 0, len(buildErrors))
	}
	return result
}

// SyncPlan merges raw phase fragments and syncs every resulting day,
// aggregating into one result under a single batch id.
func (s *Service) SyncPlan(ctx context.Context, fragments []plan.DaySchedule) *CreateResult {
	days := merge.Days(fragments)

	total := &CreateResult{BatchID: uuid.NewString()}
	for _, day := range days {
		r := s.SyncDay(ctx, day)
		total.Created += r.Created
		total.Failed += r.Failed
		total.EventIDs = append(total.EventIDs, r.EventIDs...)
		total.Errors = append(total.Errors, r.Errors...)
	}

	s.logger.Info().
		Str("batch_id", total.BatchID).
		Int("days", len(days)).
		Int("created", total.Created).
		Int("failed", total.Failed).
		Msg("plan sync completed")

	return total
}

func (s *Service) recordCounts(ctx context.Context, created, failed int) {
	if s.createdCounter != nil && created > 0 {
		s.createdCounter.Add(ctx, int64(created))
	}
	if s.failedCounter != nil && failed > 0 {
		s.failedCounter.Add(ctx, int64(failed))
	}
}
