package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "pharmacy-backend/internal/errors"
)

// scriptedSyncer fails the first failures calls with a storage error, then
// succeeds.
type scriptedSyncer struct {
	calls    atomic.Int32
	failures int32
}

func (s *scriptedSyncer) SyncCompletedOrders(ctx context.Context) (int, error) {
	n := s.calls.Add(1)
	if n <= s.failures {
		return 0, apperr.Wrap(apperr.ErrStorage, "ledger unavailable")
	}
	return 1, nil
}

func newTestWorker(s Syncer, maxAttempts int) *SyncWorker {
	w := NewSyncWorker(s, time.Hour, maxAttempts, zerolog.Nop())
	w.retryInitial = 5 * time.Millisecond
	return w
}

func waitForCalls(t *testing.T, s *scriptedSyncer, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.calls.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d sync calls, saw %d", want, s.calls.Load())
}

func TestSyncWorker_TriggerNowRunsImmediately(t *testing.T) {
	syncer := &scriptedSyncer{}
	w := newTestWorker(syncer, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.TriggerNow()
	waitForCalls(t, syncer, 1)

	cancel()
	w.Wait()
	assert.Equal(t, int32(1), syncer.calls.Load())
}

func TestSyncWorker_RetriesStorageFailuresWithinRun(t *testing.T) {
	syncer := &scriptedSyncer{failures: 2}
	w := newTestWorker(syncer, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.TriggerNow()
	// two failures then a success, all inside a single triggered run
	waitForCalls(t, syncer, 3)

	cancel()
	w.Wait()
	assert.Equal(t, int32(3), syncer.calls.Load())
}

func TestSyncWorker_AbandonsRunAfterAttemptBudget(t *testing.T) {
	syncer := &scriptedSyncer{failures: 100}
	w := newTestWorker(syncer, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.TriggerNow()
	waitForCalls(t, syncer, 3)

	// give the loop room to (incorrectly) keep retrying
	time.Sleep(100 * time.Millisecond)
	cancel()
	w.Wait()

	assert.Equal(t, int32(3), syncer.calls.Load(),
		"a failing run stops after three total attempts until the next trigger")
}

func TestSyncWorker_TriggerCoalesces(t *testing.T) {
	syncer := &scriptedSyncer{}
	w := newTestWorker(syncer, 3)

	// queue several one-shot requests before the loop starts; only one slot
	// exists, so they collapse into a single pending run
	w.TriggerNow()
	w.TriggerNow()
	w.TriggerNow()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	waitForCalls(t, syncer, 1)
	time.Sleep(50 * time.Millisecond)

	cancel()
	w.Wait()
	assert.Equal(t, int32(1), syncer.calls.Load())
}

func TestSyncWorker_StopsOnContextCancel(t *testing.T) {
	syncer := &scriptedSyncer{}
	w := newTestWorker(syncer, 3)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
	require.Zero(t, syncer.calls.Load())
}
