package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/repository"
	"github.com/furwell/clinic-api/pkg/logger"
	"github.com/furwell/clinic-api/pkg/metrics"
)

// Emitter records sweep outcomes for asynchronous publication.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

// Sweeper purges pending reservations whose date has passed. It fires at
// local midnight and then every 24 hours; done reservations are never
// touched, so a sweep is idempotent and safe alongside booking traffic.
// Restarts reschedule relative to the new process start, which may skip
// or double a sweep within the restart day; stale past-pending rows are
// harmless until the next successful purge, so this is tolerated.
type Sweeper struct {
	repo    repository.ReservationRepository
	events  Emitter
	logger  *logger.Logger
	metrics *metrics.Metrics
	sched   gocron.Scheduler
}

func NewSweeper(repo repository.ReservationRepository, events Emitter, log *logger.Logger, m *metrics.Metrics) *Sweeper {
	return &Sweeper{
		repo:    repo,
		events:  events,
		logger:  log,
		metrics: m,
	}
}

// nextMidnight returns the first local midnight strictly after now.
func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}

// Start schedules the daily sweep. Call Stop on shutdown.
func (s *Sweeper) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	first := nextMidnight(time.Now())
	_, err = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(s.run),
		gocron.WithStartAt(gocron.WithStartDateTime(first)),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}

	s.sched = sched
	sched.Start()
	if s.logger != nil {
		s.logger.Info("expiration sweeper started", "first_run", first.Format(time.RFC3339))
	}
	return nil
}

func (s *Sweeper) Stop() error {
	if s.sched == nil {
		return nil
	}
	return s.sched.Shutdown()
}

// run is the scheduled entry point. A failed cycle is logged and
// swallowed; the next daily fire retries.
func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.Sweep(ctx, time.Now())
	if err != nil {
		if s.metrics != nil {
			s.metrics.SweepFailures.Inc()
		}
		if s.logger != nil {
			s.logger.Error(err, "sweep cycle failed")
		}
		return
	}
	if s.logger != nil {
		s.logger.Info("cleared outdated reservations", "deleted", n)
	}
}

// Sweep deletes pending reservations dated strictly before today, where
// today is the local midnight of now. It returns the number removed.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int64, error) {
	if s.metrics != nil {
		timer := prometheus.NewTimer(s.metrics.SweepDuration)
		defer timer.ObserveDuration()
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	n, err := s.repo.DeletePendingBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale reservations: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SweptReservations.Add(float64(n))
	}
	if n > 0 && s.events != nil {
		payload := map[string]interface{}{"deleted": n, "cutoff": today.Format("2006-01-02")}
		if err := s.events.Emit(ctx, model.EventReservationsSwept, payload); err != nil && s.logger != nil {
			s.logger.Warn("failed to record sweep event", "deleted", n)
		}
	}
	return n, nil
}
