// Package scheduler runs the report generator on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"marketreport/internal/aggregator"
	"marketreport/internal/config"
	"marketreport/internal/logger"
	"marketreport/internal/report"
)

// ErrNoSchedule is returned when schedule.cron is empty.
var ErrNoSchedule = errors.New("no cron schedule configured")

// Generator produces one report per call.
type Generator interface {
	Generate(ctx context.Context) (*report.Result, error)
}

// Stats counts scheduled runs by outcome.
type Stats struct {
	Runs    int64
	Written int64
	Empty   int64
	Failed  int64
}

// Scheduler triggers a report run at every tick of a cron expression.
// A tick that arrives while the previous run is still going is skipped.
type Scheduler struct {
	cron      *cron.Cron
	generator Generator
	logger    *logger.Logger
	spec      string
	runs      atomic.Int64
	written   atomic.Int64
	empty     atomic.Int64
	failed    atomic.Int64
}

// New creates a scheduler from the schedule section of the configuration.
func New(cfg config.ScheduleConfig, g Generator, l *logger.Logger) (*Scheduler, error) {
	if cfg.Cron == "" {
		return nil, ErrNoSchedule
	}

	if l == nil {
		l = logger.NewDiscardLogger()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidSchedule, err)
	}

	l = l.With("component", "scheduler")
	cl := cronLogger{l: l}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		generator: g,
		logger:    l,
		spec:      cfg.Cron,
	}, nil
}

// Run schedules the job and blocks until ctx is cancelled, then waits for
// a run in progress to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) })
	if err != nil {
		return fmt.Errorf("failed to schedule report job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "cron", s.spec, "next_run", s.cron.Entry(id).Next)

	<-ctx.Done()

	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped", "stats", fmt.Sprintf("%+v", s.Stats()))

	return nil
}

// RunOnce performs one report run. An empty dataset is not a failure:
// the scheduler simply waits for the next tick.
func (s *Scheduler) RunOnce(ctx context.Context) {
	n := s.runs.Add(1)
	start := time.Now()

	result, err := s.generator.Generate(ctx)

	switch {
	case errors.Is(err, aggregator.ErrEmptyDataset):
		s.empty.Add(1)
		s.logger.Warn("scheduled run produced no articles, waiting for next tick", "run", n)
	case err != nil:
		s.failed.Add(1)
		s.logger.Error("scheduled run failed", "run", n, "error", err)
	default:
		s.written.Add(1)
		s.logger.Info("scheduled run complete", "run", n, "dir", result.Dir, "duration", time.Since(start))
	}
}

// Stats returns run counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Runs:    s.runs.Load(),
		Written: s.written.Load(),
		Empty:   s.empty.Load(),
		Failed:  s.failed.Load(),
	}
}

// cronLogger routes cron's own messages into the structured logger.
type cronLogger struct {
	l *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
