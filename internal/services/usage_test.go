package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu     sync.Mutex
	calls  []UsageEvent
	err    error
	block  chan struct{}
	called chan struct{}
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{called: make(chan struct{}, 16)}
}

func (f *fakeRecorder) IncrementUsage(ctx context.Context, id, ownerID uuid.UUID) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, UsageEvent{KeyID: id, OwnerID: ownerID})
	err := f.err
	f.mu.Unlock()
	f.called <- struct{}{}
	return err
}

func (f *fakeRecorder) Calls() []UsageEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]UsageEvent(nil), f.calls...)
}

func waitCalled(t *testing.T, f *fakeRecorder) {
	t.Helper()
	select {
	case <-f.called:
	case <-time.After(time.Second):
		t.Fatal("recorder was not called")
	}
}

func TestUsageTracker_RecordsEvents(t *testing.T) {
	rec := newFakeRecorder()
	tracker := NewUsageTracker(rec, 8, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tracker.Run(ctx)

	keyID, ownerID := uuid.New(), uuid.New()
	tracker.Track(keyID, ownerID)
	waitCalled(t, rec)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, keyID, calls[0].KeyID)
	assert.Equal(t, ownerID, calls[0].OwnerID)
}

func TestUsageTracker_FailureIsPublishedNotReturned(t *testing.T) {
	rec := newFakeRecorder()
	rec.err = errors.New("connection reset")
	tracker := NewUsageTracker(rec, 8, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tracker.Run(ctx)

	keyID := uuid.New()
	tracker.Track(keyID, uuid.New())

	select {
	case err := <-tracker.Errors():
		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr)
		assert.Equal(t, keyID, usageErr.Event.KeyID)
		assert.ErrorIs(t, err, rec.err)
	case <-time.After(time.Second):
		t.Fatal("expected usage error")
	}
}

func TestUsageTracker_TrackNeverBlocksWhenFull(t *testing.T) {
	rec := newFakeRecorder()
	tracker := NewUsageTracker(rec, 1, time.Second)

	// No Run loop: the first event fills the queue, the second is dropped.
	done := make(chan struct{})
	go func() {
		tracker.Track(uuid.New(), uuid.New())
		tracker.Track(uuid.New(), uuid.New())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Track blocked on a full queue")
	}

	select {
	case err := <-tracker.Errors():
		assert.ErrorIs(t, err, ErrUsageQueueFull)
	default:
		t.Fatal("expected dropped event to be reported")
	}
}

func TestUsageTracker_TimeoutBoundsRecorder(t *testing.T) {
	rec := newFakeRecorder()
	rec.block = make(chan struct{})
	tracker := NewUsageTracker(rec, 1, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tracker.Run(ctx)

	tracker.Track(uuid.New(), uuid.New())

	select {
	case err := <-tracker.Errors():
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("expected timeout error")
	}
}

func TestUsageTracker_RunStopsOnCancel(t *testing.T) {
	tracker := NewUsageTracker(newFakeRecorder(), 1, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		tracker.Run(ctx)
		close(stopped)
	}()

	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewUsageTracker_Defaults(t *testing.T) {
	tracker := NewUsageTracker(newFakeRecorder(), 0, 0)

	assert.Equal(t, DefaultUsageQueueSize, cap(tracker.events))
	assert.Equal(t, DefaultUsageTimeout, tracker.timeout)
}
