package scheduler

import (
	"context"
	"time"

	"github.com/pathakanu/remindmail/internal/processor"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSpec runs a cycle every five minutes, well inside the send window.
const DefaultSpec = "*/5 * * * *"

// Cycle runs one processing cycle.
type Cycle interface {
	ProcessReminders(ctx context.Context) processor.Summary
}

// Scheduler triggers processing cycles on a cron spec.
// Runs are not serialised with each other or with HTTP-triggered cycles.
type Scheduler struct {
	cron   *cron.Cron
	cycle  Cycle
	logger logrus.FieldLogger
}

func New(cycle Cycle, location *time.Location, logger logrus.FieldLogger) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(location)),
		cycle:  cycle,
		logger: logger,
	}
}

// Start registers the job for spec and starts the scheduler loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.WithField("spec", spec).Info("scheduler: started")
	return nil
}

// Stop stops the scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) run() {
	summary := s.cycle.ProcessReminders(context.Background())
	entry := s.logger.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"sent":      summary.Sent,
	})
	if !summary.Success {
		entry.WithField("error", summary.Error).Error("scheduler: cycle failed")
		return
	}
	entry.Info("scheduler: cycle finished")
}
