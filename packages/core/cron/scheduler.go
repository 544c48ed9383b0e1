package cron

import (
	"context"
	"time"

	"idl-tracker/logging"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Rater rates every game that is still waiting for a rating.
type Rater interface {
	RatePending(ctx context.Context) (int, error)
	PendingCount(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	rater   Rater
	spec    string
	timeout time.Duration
}

func NewScheduler(rater Rater, spec string) *Scheduler {
	// Create cron with seconds precision; overlapping runs are skipped
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
		cron.WithLogger(cronLogger{}),
	)

	return &Scheduler{
		cron:    c,
		rater:   rater,
		spec:    spec,
		timeout: 10 * time.Minute,
	}
}

// Start registers the rating job and starts the scheduler
func (s *Scheduler) Start() error {
	logging.Info("Starting cron scheduler", zap.String("spec", s.spec))

	if _, err := s.cron.AddFunc(s.spec, s.runRating); err != nil {
		logging.Error("Error scheduling rating job", zap.String("spec", s.spec), zap.Error(err))
		return err
	}

	s.cron.Start()
	logging.Info("Cron scheduler started successfully")

	return nil
}

// Stop waits for a running job to finish
func (s *Scheduler) Stop() {
	logging.Info("Stopping cron scheduler...")
	<-s.cron.Stop().Done()
	logging.Info("Cron scheduler stopped")
}

// RunNow runs the rating job once in the calling goroutine
func (s *Scheduler) RunNow() {
	logging.Info("Manually triggering rating job...")
	s.runRating()
}

func (s *Scheduler) runRating() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	pending, err := s.rater.PendingCount(ctx)
	if err != nil {
		logging.Error("Error checking pending games count", zap.Error(err))
		return
	}

	if pending == 0 {
		logging.Debug("No pending games to rate")
		return
	}

	logging.Info("Found pending games to rate", zap.Int64("pending", pending))

	rated, err := s.rater.RatePending(ctx)
	if err != nil {
		logging.Error("Error during rating job", zap.Int("rated", rated), zap.Error(err))
		return
	}

	logging.Info("Rating job completed successfully", zap.Int("rated", rated))
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.Logger().Sugar().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.Logger().Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
