package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the refresher on a fixed interval.
// A tick that arrives while a refresh is still running is skipped, so refreshes never overlap.
type Scheduler struct {
	refresher *Refresher
	interval  time.Duration
	cron      *cron.Cron
	log       *slog.Logger
	cancel    context.CancelFunc
}

// NewScheduler creates a scheduler. Intervals under a second are rounded up by cron.
func NewScheduler(r *Refresher, interval time.Duration, l *slog.Logger) *Scheduler {
	cl := cronLogger{l: l}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{refresher: r, interval: interval, cron: c, log: l}
}

// Start refreshes once synchronously, then schedules the periodic refresh.
// A failed first refresh is logged; the schedule still starts.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.run(ctx)
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() { s.run(ctx) }))
	s.cron.Start()
	s.log.Info("scheduler_started", "interval", s.interval.String())
}

// Stop cancels the schedule and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.log.Info("scheduler_stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// a refresh may not outlive its own slot
	rctx, cancel := context.WithTimeout(ctx, max(s.interval, time.Second))
	defer cancel()

	if _, err := s.refresher.Refresh(rctx); err != nil {
		s.log.Error("refresh_error", "err", err)
	}
}

// cronLogger adapts slog to cron's logger interface
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron_"+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron_"+msg, append([]interface{}{"err", err}, keysAndValues...)...)
}
