// Package scheduler runs periodic maintenance jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

// BatchJob processes one batch and returns the number of items handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// ExpiredCounter is notified of how many subscriptions a sweep expired.
type ExpiredCounter interface {
	SubscriptionsExpired(n int)
}

const sweepTimeout = 5 * time.Minute

// SchedulerManager owns the gocron scheduler and the jobs registered on it.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.Mutex
}

// NewSchedulerManager creates a scheduler running in the business timezone.
func NewSchedulerManager(log logger.Interface, opts ...gocron.SchedulerOption) (*SchedulerManager, error) {
	opts = append([]gocron.SchedulerOption{gocron.WithLocation(biztime.Location())}, opts...)
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterExpirySweep marks lapsed active subscriptions as expired every interval.
// counter may be nil.
func (m *SchedulerManager) RegisterExpirySweep(job BatchJob, interval time.Duration, counter ExpiredCounter) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
			defer cancel()
			m.sweepExpired(ctx, job, counter)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", "expire"),
		gocron.WithName("subscription-expiry-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered expiry sweep", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) sweepExpired(ctx context.Context, job BatchJob, counter ExpiredCounter) {
	startTime := time.Now()

	expiredCount, err := job.Execute(ctx)
	if counter != nil && expiredCount > 0 {
		counter.SubscriptionsExpired(expiredCount)
	}
	if err != nil {
		m.logger.Errorw("failed to sweep expired subscriptions",
			"error", err,
			"expired", expiredCount,
			"duration", time.Since(startTime),
		)
		return
	}

	if expiredCount > 0 {
		m.logger.Infow("expired subscriptions processed",
			"count", expiredCount,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no expired subscriptions to process", "duration", time.Since(startTime))
	}
}

// Start starts the scheduler. Calling it twice is a no-op.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to finish and shuts the scheduler down.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled. It fits an errgroup.
func (m *SchedulerManager) Run(ctx context.Context) error {
	m.Start()
	<-ctx.Done()
	return m.Stop()
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
