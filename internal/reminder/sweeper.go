// Package reminder periodically finds plants that need water and keeps the
// open reminder list of every owner up to date.
package reminder

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"bloompal-backend/config"
	"bloompal-backend/internal/care"
	"bloompal-backend/internal/metrics"
	"bloompal-backend/internal/model"
	"bloompal-backend/internal/store"
)

// lookahead widens the due-plant query; the engine makes the final call.
const lookahead = care.Day

// Result summarizes one sweep.
type Result struct {
	Owners   int
	Due      int
	Opened   int
	Repaired int
}

// Sweeper runs the reminder sweep on a schedule.
type Sweeper struct {
	cfg        config.RemindersConfig
	store      store.Store
	clock      clockwork.Clock
	log        *logrus.Logger
	workerPool *WorkerPool
}

// NewSweeper creates a sweeper and its worker pool.
func NewSweeper(cfg *config.Config, s store.Store, engine *care.Engine, clock clockwork.Clock, log *logrus.Logger) *Sweeper {
	return &Sweeper{
		cfg:        cfg.Reminders,
		store:      s,
		clock:      clock,
		log:        log,
		workerPool: NewWorkerPool(cfg.WorkerPool.Size, s, engine, log),
	}
}

// WorkerPool exposes the pool, e.g. to replace its notifier.
func (s *Sweeper) WorkerPool() *WorkerPool {
	return s.workerPool
}

// Run starts the worker pool and sweeps every configured interval until ctx
// is done. Sweeps never overlap.
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.log.Info("Reminder sweep is disabled. Not starting.")
		return nil
	}
	s.log.WithField("interval", s.cfg.Interval).Info("Starting reminder sweep...")

	s.workerPool.Start(ctx)

	scheduler, err := gocron.NewScheduler(gocron.WithClock(s.clock))
	if err != nil {
		return err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.cfg.Interval),
		gocron.NewTask(func() { s.sweep(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}
	scheduler.Start()

	<-ctx.Done()
	s.log.Info("Reminder sweep shutting down.")
	return scheduler.Shutdown()
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	res, err := s.SweepOnce(ctx)
	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SweepsTotal.WithLabelValues("error").Inc()
		if !errors.Is(err, context.Canceled) {
			s.log.WithError(err).Error("Reminder sweep failed")
		}
		return
	}
	metrics.SweepsTotal.WithLabelValues("ok").Inc()
	s.log.WithFields(logrus.Fields{
		"owners":   res.Owners,
		"due":      res.Due,
		"opened":   res.Opened,
		"repaired": res.Repaired,
	}).Info("Reminder sweep complete")
}

// SweepOnce repairs drifted schedules, then evaluates every plant due within
// a day and every owner with open reminders. The worker pool must have been
// started.
func (s *Sweeper) SweepOnce(ctx context.Context) (Result, error) {
	now := s.clock.Now().UTC()

	repaired, err := s.store.RepairSchedules(ctx)
	if err != nil {
		return Result{}, err
	}

	plants, err := s.store.ListDuePlants(ctx, now.Add(lookahead))
	if err != nil {
		return Result{}, err
	}
	owners, err := s.store.ListReminderOwners(ctx)
	if err != nil {
		return Result{}, err
	}

	byOwner := make(map[string][]model.Plant)
	for _, p := range plants {
		byOwner[p.OwnerID] = append(byOwner[p.OwnerID], p)
	}
	// Owners whose plants were all watered still need their reminders closed.
	for _, o := range owners {
		if _, ok := byOwner[o]; !ok {
			byOwner[o] = nil
		}
	}

	ownerIDs := make([]string, 0, len(byOwner))
	for o := range byOwner {
		ownerIDs = append(ownerIDs, o)
	}
	sort.Strings(ownerIDs)

	results := make(chan jobResult, len(ownerIDs))
	dispatched := 0
	for _, o := range ownerIDs {
		job := Job{OwnerID: o, Plants: byOwner[o], Now: now, results: results}
		if err := s.workerPool.Dispatch(ctx, job); err != nil {
			return Result{}, err
		}
		dispatched++
	}

	res := Result{Owners: dispatched, Repaired: repaired}
	var errs []error
	for i := 0; i < dispatched; i++ {
		select {
		case r := <-results:
			res.Due += r.due
			res.Opened += r.opened
			if r.err != nil {
				errs = append(errs, r.err)
			}
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
	return res, errors.Join(errs...)
}
