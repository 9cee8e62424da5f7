package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/receiving/pkg/application/dto"
	"github.com/vsinha/receiving/pkg/infrastructure/lock"
	"github.com/vsinha/receiving/pkg/infrastructure/logging"
)

// LockKey is the lock held across instances while a pass runs
const LockKey = "receiving:reconcile-pending"

// PendingReconciler runs one pass over pending received records
type PendingReconciler interface {
	ReconcilePending(ctx context.Context) (*dto.PendingRun, error)
}

// Scheduler triggers pending reconciliation on a cron schedule. A run that
// is still going when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron     *cron.Cron
	runner   PendingReconciler
	logger   *logrus.Logger
	schedule string
	timeout  time.Duration
	locker   lock.Locker
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithLocker makes every run first take LockKey, skipping the run when
// another instance holds it
func WithLocker(locker lock.Locker) Option {
	return func(s *Scheduler) {
		s.locker = locker
	}
}

// WithTimeout bounds a single run
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// New registers the reconciliation job. The scheduler does nothing until Start.
func New(schedule string, runner PendingReconciler, logger *logrus.Logger, opts ...Option) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("pending reconciler cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Scheduler{
		runner:   runner,
		logger:   logger,
		schedule: schedule,
		timeout:  time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("unable to schedule pending reconciliation %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins firing the job in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("pending reconciliation scheduler started")
}

// Stop halts the schedule and waits for a running job, or for ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce performs a single reconciliation pass bounded by the job timeout
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.locker != nil {
		lease, err := s.locker.Obtain(ctx, LockKey, s.timeout)
		if errors.Is(err, lock.ErrNotObtained) {
			s.logger.Debug("pending reconciliation skipped, another instance holds the lock")
			return
		}
		if err != nil {
			logging.LogError(s.logger, "scheduler", "RunOnce", "obtain lock", LockKey, err)
			return
		}
		defer func() {
			if err := lease.Release(context.Background()); err != nil {
				s.logger.WithError(err).Warn("failed to release reconciliation lock")
			}
		}()
	}

	started := time.Now()
	run, err := s.runner.ReconcilePending(ctx)
	if err != nil {
		logging.LogError(s.logger, "scheduler", "RunOnce", "reconcile pending", nil, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"attempted": run.Attempted,
		"matched":   run.Matched,
		"failed":    len(run.Failures),
		"elapsed":   time.Since(started).String(),
	}).Debug("pending reconciliation job finished")
}
