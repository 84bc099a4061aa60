package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type SchedulerConfig struct {
	// Cron specs; an empty spec disables the job.
	ReminderSpec string
	OverdueSpec  string
	SweepSpec    string
	SessionIdle  time.Duration
	Location     *time.Location
}

// Sweeper drops idle booking sessions.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// Scheduler runs the background jobs: appointment reminders, overdue
// invoices and the booking-session sweep.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(cfg SchedulerConfig, reminders *ReminderService, billing *BillingService, sessions Sweeper, logger *zap.Logger) (*Scheduler, error) {
	logger = logger.Named("scheduler")
	cronLog := cronLogger{logger.Sugar()}
	opts := []cron.Option{cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog))}
	if cfg.Location != nil {
		opts = append(opts, cron.WithLocation(cfg.Location))
	}
	s := &Scheduler{cron: cron.New(opts...), logger: logger}

	if cfg.ReminderSpec != "" && reminders != nil {
		if err := s.add("reminders", cfg.ReminderSpec, func(ctx context.Context) {
			if _, err := reminders.SendUpcomingReminders(ctx); err != nil {
				logger.Error("reminder job failed", zap.Error(err))
			}
		}); err != nil {
			return nil, err
		}
	}
	if cfg.OverdueSpec != "" && billing != nil {
		if err := s.add("overdue", cfg.OverdueSpec, func(ctx context.Context) {
			if _, err := billing.MarkOverdue(ctx); err != nil {
				logger.Error("overdue job failed", zap.Error(err))
			}
		}); err != nil {
			return nil, err
		}
	}
	if cfg.SweepSpec != "" && sessions != nil {
		idle := cfg.SessionIdle
		if err := s.add("session-sweep", cfg.SweepSpec, func(context.Context) {
			if n := sessions.Sweep(idle); n > 0 {
				logger.Info("booking sessions expired", zap.Int("count", n))
			}
		}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// cronLogger routes cron's own messages, including recovered panics, to zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

func (s *Scheduler) add(name, spec string, job func(context.Context)) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		job(context.Background())
		s.logger.Debug("job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}
