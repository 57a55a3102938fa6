package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/gameshelf/newsletter/internal/bus"
	"github.com/gameshelf/newsletter/internal/domain"
)

// Job binds a bus job name to a standard 5-field cron expression
// (minute, hour, day-of-month, month, day-of-week).
type Job struct {
	Name string
	Spec string
}

// Scheduler fires trigger envelopes at the configured recurring instants.
// It only fires while the process is running: firings missed during
// downtime are not backfilled.
//
// The scheduler owns nothing beyond the schedule itself. All it does on a
// tick is place an envelope on the bus, so a manual dispatch of the same
// envelope is indistinguishable from a scheduled one.
type Scheduler struct {
	c      *cron.Cron
	bus    *bus.Bus
	logger *zap.Logger
}

// New parses and registers every job's cron expression. A malformed
// expression or unknown timezone is a configuration error reported before
// any run can happen.
func New(timezone string, b *bus.Bus, logger *zap.Logger, jobs ...Job) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	s := &Scheduler{
		c:      cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
		bus:    b,
		logger: logger,
	}

	for _, j := range jobs {
		job := j
		if _, err := s.c.AddFunc(job.Spec, func() { s.fire(job.Name) }); err != nil {
			return nil, fmt.Errorf("parse cron spec %q for job %s: %w", job.Spec, job.Name, err)
		}
		logger.Info("job scheduled",
			zap.String("job", job.Name),
			zap.String("spec", job.Spec),
			zap.String("timezone", timezone),
		)
	}

	return s, nil
}

func (s *Scheduler) fire(job string) {
	env := bus.Envelope{
		Job:        job,
		Trigger:    domain.TriggerSchedule,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := s.bus.Dispatch(env); err != nil {
		// A full lane means the previous run is still draining; dropping the
		// firing keeps runs serialized instead of stacking them up.
		s.logger.Error("could not dispatch scheduled job",
			zap.String("job", job),
			zap.Error(err),
		)
	}
}

// Start begins firing on schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop halts the schedule and waits for any in-flight fire to complete.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}
