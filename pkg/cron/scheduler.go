// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mkallio/statement-converter/internal/domain/batch"
)

// Scheduler sweeps the pending directory on a cron expression. This is
// watch mode: the converter stays resident and picks up PDFs as they
// arrive instead of exiting after one pass.
type Scheduler struct {
	cron      *cron.Cron
	processor *batch.Processor
	schedule  string
	logger    *slog.Logger
}

// NewScheduler creates a new sweep scheduler.
func NewScheduler(processor *batch.Processor, schedule string, logger *slog.Logger) *Scheduler {
	// Standard 5-field cron format, no seconds.
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		processor: processor,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start begins scheduled sweeps.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweep)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("sweep scheduler started", slog.String("schedule", s.schedule))
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("sweep scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers a sweep outside the schedule.
func (s *Scheduler) RunNow() {
	go s.sweep()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if _, err := s.processor.Sweep(ctx); err != nil {
		s.logger.Error("scheduled sweep failed", slog.Any("error", err))
	}
}
