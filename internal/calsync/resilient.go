package calsync

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/circaplan/circaplan/internal/calevent"
)

// ResilientProviderConfig holds configuration for the resilient provider
// decorator.
type ResilientProviderConfig struct {
	// Name identifies the circuit breaker (defaults to the inner
	// provider's name).
	Name string

	// MaxRetries is the maximum number of retry attempts per call.
	// Default: 3
	MaxRetries uint64

	// InitialInterval is the initial retry backoff interval.
	// Default: 100ms
	InitialInterval time.Duration

	// MaxInterval is the maximum retry backoff interval.
	// Default: 5 seconds
	MaxInterval time.Duration

	// BreakerTimeout is the open-state period before the circuit moves to
	// half-open. Default: 60 seconds
	BreakerTimeout time.Duration

	// ReadyToTrip determines when the circuit trips. If nil, trips at 5+
	// requests with a 50%+ failure rate.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// IsPermanent marks provider errors that must not be retried, beyond
	// ErrEventNotFound which is always permanent.
	IsPermanent func(err error) bool
}

// ResilientProvider wraps a Provider with retry and a circuit breaker.
// Transient failures retry with exponential backoff; a tripped breaker
// fails fast with ErrProviderUnavailable; not-found and caller-declared
// permanent errors pass straight through without retries.
type ResilientProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker[string]
	config  ResilientProviderConfig
}

// NewResilientProvider decorates inner with retry and circuit breaking.
func NewResilientProvider(inner Provider, cfg ResilientProviderConfig) *ResilientProvider {
	if cfg.Name == "" {
		cfg.Name = inner.Name()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
	}
	if cfg.ReadyToTrip != nil {
		settings.ReadyToTrip = cfg.ReadyToTrip
	} else {
		settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		}
	}

	return &ResilientProvider{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		config:  cfg,
	}
}

// Name returns the inner provider's name.
func (p *ResilientProvider) Name() string {
	return p.inner.Name()
}

// CreateEvent creates an event through the breaker, retrying transient
// failures.
func (p *ResilientProvider) CreateEvent(ctx context.Context, event *calevent.Event) (string, error) {
	var id string
	operation := func() error {
		created, err := p.breaker.Execute(func() (string, error) {
			return p.inner.CreateEvent(ctx, event)
		})
		if err != nil {
			return p.classify(err)
		}
		id = created
		return nil
	}

	if err := backoff.Retry(operation, p.newBackOff(ctx)); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteEvent deletes an event through the breaker. A not-found response is
// success as far as the breaker and retry loop are concerned; it is
// reported back unchanged for the caller to reclassify.
func (p *ResilientProvider) DeleteEvent(ctx context.Context, id string) error {
	var notFound bool
	operation := func() error {
		_, err := p.breaker.Execute(func() (string, error) {
			innerErr := p.inner.DeleteEvent(ctx, id)
			if errors.Is(innerErr, ErrEventNotFound) {
				notFound = true
				return "", nil
			}
			return "", innerErr
		})
		if err != nil {
			return p.classify(err)
		}
		return nil
	}

	if err := backoff.Retry(operation, p.newBackOff(ctx)); err != nil {
		return err
	}
	if notFound {
		return ErrEventNotFound
	}
	return nil
}

// State returns the current circuit breaker state.
func (p *ResilientProvider) State() gobreaker.State {
	return p.breaker.State()
}

func (p *ResilientProvider) classify(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return backoff.Permanent(ErrProviderUnavailable)
	}
	if errors.Is(err, ErrEventNotFound) {
		return backoff.Permanent(err)
	}
	if p.config.IsPermanent != nil && p.config.IsPermanent(err) {
		return backoff.Permanent(err)
	}
	return err
}

func (p *ResilientProvider) newBackOff(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.config.InitialInterval
	bo.MaxInterval = p.config.MaxInterval
	bo.MaxElapsedTime = 0 // retries are bounded by WithMaxRetries
	return backoff.WithContext(backoff.WithMaxRetries(bo, p.config.MaxRetries), ctx)
}
