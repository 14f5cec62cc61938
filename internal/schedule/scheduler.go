package schedule

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler drives recurring per-target checks. Each registered job runs
// on its own interval-derived cron spec; a panic inside a job is recovered
// and logged, never allowed to take the process down.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	cl := cronLogger{sugar: logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cl)),
		),
		logger: logger,
	}
}

// Add registers a recurring job for one target. The recurrence is derived
// from the interval via BuildRecurrence; the returned entry id can be used
// for introspection.
func (s *Scheduler) Add(label string, intervalMs int64, run func()) (cron.EntryID, error) {
	spec := BuildRecurrence(intervalMs)
	id, err := s.cron.AddFunc(spec, run)
	if err != nil {
		return 0, err
	}
	s.logger.Info("schedule_added",
		zap.String("label", label),
		zap.Int64("interval_ms", intervalMs),
		zap.String("spec", spec),
	)
	return id, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop ends scheduling. The returned context completes once in-flight jobs
// have drained.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger adapts zap to cron's logging interface. Scheduling chatter
// goes to debug; recovered panics go to error.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.sugar.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
