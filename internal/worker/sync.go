// Package worker hosts the background reconciliation job that marks locally
// completed payment orders as synchronized.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/retry"
)

// Syncer is the reconciliation operation the worker drives; satisfied by the
// payment service.
type Syncer interface {
	SyncCompletedOrders(ctx context.Context) (int, error)
}

// SyncWorker runs the reconciliation pass on a recurring schedule and on
// demand. A failing run is retried with exponential backoff up to the attempt
// budget, then abandoned until the next trigger.
type SyncWorker struct {
	syncer      Syncer
	interval    time.Duration
	maxAttempts int
	logger      zerolog.Logger

	// base delay for the in-run retry backoff
	retryInitial time.Duration

	trigger chan struct{}
	wg      sync.WaitGroup
}

func NewSyncWorker(syncer Syncer, interval time.Duration, maxAttempts int, logger zerolog.Logger) *SyncWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &SyncWorker{
		syncer:       syncer,
		interval:     interval,
		maxAttempts:  maxAttempts,
		logger:       logger,
		retryInitial: 2 * time.Second,
		// one slot: at most a single one-shot run pending, latest wins
		trigger: make(chan struct{}, 1),
	}
}

// Start launches the worker loop. It returns immediately; the loop stops when
// ctx is cancelled.
func (w *SyncWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.runOnce(ctx)
			case <-w.trigger:
				w.runOnce(ctx)
			}
		}
	}()
}

// TriggerNow requests an immediate one-shot run. If a one-shot run is already
// pending it is coalesced with this one.
func (w *SyncWorker) TriggerNow() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Wait blocks until the worker loop has exited.
func (w *SyncWorker) Wait() {
	w.wg.Wait()
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	policy := retry.NewPolicy(
		retry.WithInitialInterval(w.retryInitial),
		retry.WithBackoffCoefficient(2.0),
		retry.WithMaximumInterval(time.Minute),
		retry.WithMaximumAttempts(w.maxAttempts),
	)

	var synced int
	err := retry.Run(ctx, func() error {
		var runErr error
		synced, runErr = w.syncer.SyncCompletedOrders(ctx)
		return runErr
	}, policy, isRetriable)

	if err != nil {
		// abandoned until the next scheduled trigger
		w.logger.Error().Err(err).
			Msg("sync run failed, deferring to next trigger")
		return
	}

	w.logger.Debug().Int("synced", synced).Msg("sync run finished")
}

func isRetriable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// storage hiccups are the retryable class; validation or gateway kinds
	// have no business showing up here
	return errors.Is(err, apperr.ErrStorage)
}
