package reminder

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"bloompal-backend/internal/care"
	"bloompal-backend/internal/metrics"
	"bloompal-backend/internal/model"
	"bloompal-backend/internal/store"
)

// Notifier is told about reminders that were just opened.
type Notifier interface {
	Notify(ctx context.Context, ownerID string, opened []model.CareReminder)
}

// LogNotifier logs opened reminders and counts them. The mobile app polls
// GET /api/reminders, so nothing is pushed.
type LogNotifier struct {
	Log *logrus.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, ownerID string, opened []model.CareReminder) {
	metrics.RemindersOpened.Add(float64(len(opened)))
	for _, r := range opened {
		n.Log.WithFields(logrus.Fields{
			"owner_id":     ownerID,
			"plant_id":     r.PlantID,
			"plant":        r.PlantName,
			"days_overdue": r.DaysOverdue,
		}).Info("Plant needs water")
	}
}

// Job is the due plants of one owner, evaluated at Now.
type Job struct {
	OwnerID string
	Plants  []model.Plant
	Now     time.Time

	results chan<- jobResult
}

type jobResult struct {
	ownerID string
	due     int
	opened  int
	err     error
}

// WorkerPool manages a pool of workers that evaluate due plants.
type WorkerPool struct {
	size     int
	jobs     chan Job
	store    store.Store
	engine   *care.Engine
	notifier Notifier
	log      *logrus.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, engine *care.Engine, log *logrus.Logger) *WorkerPool {
	return &WorkerPool{
		size:     size,
		jobs:     make(chan Job, size), // Buffered channel
		store:    s,
		engine:   engine,
		notifier: LogNotifier{Log: log},
		log:      log,
	}
}

// SetNotifier replaces the default LogNotifier.
func (wp *WorkerPool) SetNotifier(n Notifier) {
	wp.notifier = n
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.WithField("worker", id).Debug("Reminder worker started")
	for {
		select {
		case job := <-wp.jobs:
			res := wp.process(ctx, job)
			if job.results != nil {
				job.results <- res
			}
		case <-ctx.Done():
			wp.log.WithField("worker", id).Debug("Reminder worker shutting down")
			return
		}
	}
}

// Dispatch sends a job to the worker pool. It blocks until a worker is free
// or ctx is done.
func (wp *WorkerPool) Dispatch(ctx context.Context, job Job) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// process evaluates the owner's plants with the care engine and syncs the
// open reminders with the result.
func (wp *WorkerPool) process(ctx context.Context, job Job) jobResult {
	res := jobResult{ownerID: job.OwnerID}

	due := make([]model.CareReminder, 0, len(job.Plants))
	for _, p := range job.Plants {
		status := wp.engine.ComputeStatus(p.CareProfile(), job.Now)
		if !status.NeedsWatering {
			continue
		}
		due = append(due, model.CareReminder{
			PlantID:     p.ID,
			PlantName:   p.Name,
			DueAt:       p.NextDueAt,
			DaysOverdue: status.DaysOverdue,
		})
	}
	res.due = len(due)

	openedIDs, err := wp.store.SyncReminders(ctx, job.OwnerID, job.Now, due)
	if err != nil {
		wp.log.WithError(err).WithField("owner_id", job.OwnerID).Error("Failed to sync reminders")
		res.err = err
		return res
	}
	res.opened = len(openedIDs)
	if len(openedIDs) == 0 {
		return res
	}

	opened := make([]model.CareReminder, 0, len(openedIDs))
	for _, r := range due {
		for _, id := range openedIDs {
			if r.PlantID == id {
				opened = append(opened, r)
				break
			}
		}
	}
	wp.notifier.Notify(ctx, job.OwnerID, opened)
	return res
}
