package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/apikey-dashboard/internal/telemetry"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrUsageQueueFull = errors.New("usage queue full")

const (
	DefaultUsageQueueSize = 256
	DefaultUsageTimeout   = 5 * time.Second
	usageErrorBuffer      = 64
)

// UsageRecorder persists a single usage event.
type UsageRecorder interface {
	IncrementUsage(ctx context.Context, id, ownerID uuid.UUID) error
}

type UsageEvent struct {
	KeyID   uuid.UUID
	OwnerID uuid.UUID
}

// UsageError describes a usage event that could not be recorded.
type UsageError struct {
	Event UsageEvent
	Err   error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("record usage for api key %s: %v", e.Event.KeyID, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// UsageTracker records key usage off the request path. Track never blocks and
// never fails; faults are logged, counted and published on Errors.
type UsageTracker struct {
	recorder UsageRecorder
	events   chan UsageEvent
	errs     chan error
	timeout  time.Duration
}

func NewUsageTracker(recorder UsageRecorder, queueSize int, timeout time.Duration) *UsageTracker {
	if queueSize <= 0 {
		queueSize = DefaultUsageQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultUsageTimeout
	}
	return &UsageTracker{
		recorder: recorder,
		events:   make(chan UsageEvent, queueSize),
		errs:     make(chan error, usageErrorBuffer),
		timeout:  timeout,
	}
}

func (t *UsageTracker) Track(keyID, ownerID uuid.UUID) {
	ev := UsageEvent{KeyID: keyID, OwnerID: ownerID}
	select {
	case t.events <- ev:
	default:
		telemetry.UsageEventsTotal.WithLabelValues(telemetry.UsageDropped).Inc()
		t.fail(ev, ErrUsageQueueFull)
	}
}

// Run drains the queue until ctx is cancelled.
func (t *UsageTracker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-t.events:
			t.record(ctx, ev)
		}
	}
}

// Errors exposes recent faults. Faults are discarded when nobody reads them.
func (t *UsageTracker) Errors() <-chan error {
	return t.errs
}

func (t *UsageTracker) record(ctx context.Context, ev UsageEvent) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := t.recorder.IncrementUsage(ctx, ev.KeyID, ev.OwnerID); err != nil {
		telemetry.UsageEventsTotal.WithLabelValues(telemetry.UsageFailed).Inc()
		t.fail(ev, err)
		return
	}
	telemetry.UsageEventsTotal.WithLabelValues(telemetry.UsageRecorded).Inc()
}

func (t *UsageTracker) fail(ev UsageEvent, err error) {
	log.Warn().Err(err).Str("api_key_id", ev.KeyID.String()).Msg("usage tracking failed")

	select {
	case t.errs <- &UsageError{Event: ev, Err: err}:
	default:
	}
}
