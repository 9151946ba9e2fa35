package newsfeed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner is what the scheduler triggers.
type Runner interface {
	Run(ctx context.Context, force bool) (Report, error)
}

// Scheduler triggers the ingestor on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	timeout time.Duration
	logger  *zap.Logger
	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewScheduler parses spec (standard five field cron syntax or descriptors
// such as "@hourly") and prepares the job. Each run is bounded by timeout.
func NewScheduler(spec string, runner Runner, timeout time.Duration, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	logger = logger.Named("scheduler")
	cronLogger := zapCronLogger{logger: logger}

	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, runner: runner, timeout: timeout, logger: logger, baseCtx: ctx, cancel: cancel}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		cancel()
		return nil, fmt.Errorf("parse news schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("news ingestion scheduled", zap.Time("next", s.Next()))
}

// Next returns the next activation time, zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop prevents new runs, cancels the running one and waits for it to return
// or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(s.baseCtx, s.timeout)
	defer cancel()

	if _, err := s.runner.Run(ctx, false); err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			s.logger.Info("skip scheduled news ingestion, manual run in progress")
			return
		}
		s.logger.Warn("scheduled news ingestion failed", zap.Error(err))
	}
}

// zapCronLogger adapts zap to cron.Logger.
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
