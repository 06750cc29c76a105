package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/pkg/timeutil"
	"github.com/mo-tomi/nowtask8/usecase/recurrence"
)

// DayGenerator is satisfied by *planner.UseCase.
type DayGenerator interface {
	GenerateForDay(ctx context.Context, day time.Time) recurrence.Plan
}

// SchedulerConfig controls when recurring tasks are generated.
type SchedulerConfig struct {
	// Spec is a cron expression with a seconds field.
	Spec       string
	RunOnStart bool
	Timeout    time.Duration
}

// Scheduler generates each day's recurring tasks at the configured time in
// the planner's timezone.
type Scheduler struct {
	gen    DayGenerator
	clock  timeutil.Clock
	cron   *cron.Cron
	entry  cron.EntryID
	cfg    SchedulerConfig
	logger *zap.Logger
}

func NewScheduler(gen DayGenerator, zone timeutil.Zone, clock timeutil.Clock, logger *zap.Logger, cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Spec == "" {
		cfg.Spec = "0 0 0 * * *"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cl := cronLogger{logger.Sugar()}
	s := &Scheduler{
		gen:    gen,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(zone.Location()),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}

	id, err := s.cron.AddFunc(cfg.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("parse generate schedule %q: %w", cfg.Spec, err)
	}
	s.entry = id
	return s, nil
}

// RunOnce generates tasks for the current day.
func (s *Scheduler) RunOnce(ctx context.Context) recurrence.Plan {
	plan := s.gen.GenerateForDay(ctx, s.clock.Now())
	s.logger.Info("daily generation finished",
		zap.String("date", plan.Date),
		zap.Int("added", len(plan.Add)),
		zap.Int("skipped", len(plan.Skipped)),
	)
	return plan
}

func (s *Scheduler) Start(ctx context.Context) {
	if s.cfg.RunOnStart {
		s.RunOnce(ctx)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.cfg.Spec), zap.Time("next", s.Next()))
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports the next scheduled run; zero before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// cronLogger routes cron's own logging into zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
