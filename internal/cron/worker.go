package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bher20/locadora/internal/alerting"
	"github.com/bher20/locadora/internal/listings"
	"github.com/bher20/locadora/internal/logger"
	"github.com/bher20/locadora/internal/metrics"
	"github.com/bher20/locadora/internal/storage"
)

const (
	// JobName identifies the refresh job in metrics and scheduled_jobs.
	JobName = "listings_refresh"
	// LockKey is the advisory lock shared by all replicas.
	LockKey int64 = 4_242_001
)

// Refresher reloads the listing table from its source.
type Refresher interface {
	ForceRefresh(ctx context.Context) (*listings.Table, error)
	SourceName() string
}

// Worker periodically refreshes listing snapshots. With a shared storage
// backend only the replica holding the advisory lock runs a cycle.
type Worker struct {
	refresher Refresher
	store     storage.Storage
	alerter   *alerting.Alerter
	schedule  Schedule
	log       *slog.Logger
	now       func() time.Time
	tick      time.Duration

	failures    int
	lastSuccess time.Time
}

// NewWorker builds a worker; alerter may be nil.
func NewWorker(r Refresher, st storage.Storage, sched Schedule, alerter *alerting.Alerter) *Worker {
	return &Worker{
		refresher: r,
		store:     st,
		alerter:   alerter,
		schedule:  sched,
		log:       logger.With("cron"),
		now:       time.Now,
		tick:      10 * time.Second,
	}
}

// Run refreshes immediately and then on every scheduled time until ctx ends.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	nextRun := w.now()
	w.log.Info("cron: worker starting", "source", w.refresher.SourceName())

	for {
		if !w.now().Before(nextRun) {
			if err := w.RunOnce(ctx); err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			nextRun = w.schedule.Next(w.now())
			w.log.Debug("cron: next run scheduled", "at", nextRun)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single locked refresh cycle. It returns the refresh
// error, or nil when another replica holds the lock. A lock that cannot be
// released after a successful refresh is reported too.
func (w *Worker) RunOnce(ctx context.Context) error {
	started := w.now()

	ok, err := w.store.AcquireAdvisoryLock(ctx, LockKey)
	if err != nil {
		w.log.Error("cron: acquire advisory lock failed", "error", err)
		metrics.UpdateJobMetrics(JobName, started, err)
		return err
	}
	if !ok {
		w.log.Info("cron: advisory lock held by another worker, skipping run")
		return nil
	}

	var runErr, releaseErr error
	var count int
	func() {
		defer func() {
			released, err := w.store.ReleaseAdvisoryLock(ctx, LockKey)
			if err == nil && !released {
				err = storage.ErrLockNotHeld
			}
			if err != nil {
				releaseErr = fmt.Errorf("release advisory lock: %w", err)
				w.log.Error("cron: release advisory lock failed", "error", err)
			}
		}()
		t, err := w.refresher.ForceRefresh(ctx)
		if err != nil {
			runErr = err
			return
		}
		count = len(t.Listings)
	}()

	dur := w.now().Sub(started)
	metrics.UpdateJobMetrics(JobName, started, runErr)
	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}
	if err := w.store.UpdateScheduledJob(ctx, JobName, started, dur, runErr == nil, errMsg); err != nil {
		w.log.Error("cron: update scheduled_jobs failed", "error", err)
	}

	if runErr == nil {
		w.failures = 0
		w.lastSuccess = started
		w.log.Info("cron: job completed", "job", JobName, "listings", count, "duration", dur)
		return releaseErr
	}

	w.failures++
	w.log.Error("cron: job failed", "job", JobName, "failures", w.failures, "duration", dur, "error", runErr)
	if w.alerter != nil {
		if err := w.alerter.SendRefreshAlert(ctx, alerting.RefreshAlert{
			JobName:             JobName,
			Source:              w.refresher.SourceName(),
			ConsecutiveFailures: w.failures,
			Error:               errMsg,
			Duration:            dur,
			LastSuccess:         w.lastSuccess,
			Timestamp:           w.now(),
		}); err != nil {
			w.log.Error("cron: send alert failed", "error", err)
		}
	}
	return runErr
}
