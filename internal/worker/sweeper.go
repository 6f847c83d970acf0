// Package worker runs the background jobs of the scheduler.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// AutoCompleter is the part of the schedule service the sweeper drives.
type AutoCompleter interface {
	AutoComplete(ctx context.Context) (int, error)
}

// Sweeper periodically marks ended sessions as completed.
type Sweeper struct {
	completer AutoCompleter
	logger    *zap.Logger
	cron      *cron.Cron
	timeout   time.Duration
}

// NewSweeper schedules the auto-complete pass on spec, a standard cron
// expression or a descriptor such as "@every 15m". A run that is still going
// when the next one is due makes the next one skip.
func NewSweeper(completer AutoCompleter, spec string, loc *time.Location, logger *zap.Logger) (*Sweeper, error) {
	if loc == nil {
		loc = time.Local
	}
	cronLog := cronLogger{logger.Sugar()}
	s := &Sweeper{
		completer: completer,
		logger:    logger,
		timeout:   time.Minute,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid auto-complete schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs one pass right away and then follows the schedule.
func (s *Sweeper) Start() {
	s.logger.Info("Starting auto-complete sweeper")
	go s.run()
	s.cron.Start()
}

// Stop stops scheduling and waits for a running pass, or for ctx.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.logger.Info("Stopping auto-complete sweeper")
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single pass.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	return s.completer.AutoComplete(ctx)
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("Auto-complete pass failed", zap.Error(err))
		return
	}
	s.logger.Debug("Auto-complete pass done", zap.Int("updated", n))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
