package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
)

const sweepTimeout = 5 * time.Minute

// Sweeper marks overdue loans.
type Sweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

// Scheduler runs the periodic lending jobs.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
}

// NewScheduler registers the overdue sweep under spec, a cron expression with seconds.
func NewScheduler(sweeper Sweeper, spec string) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron:    c,
		sweeper: sweeper,
	}
	if _, err := s.cron.AddFunc(spec, s.RunSweep); err != nil {
		return nil, errors.Wrapf(err, "invalid overdue sweep schedule %q", spec)
	}
	return s, nil
}

// RunSweep runs the overdue sweep once.
func (s *Scheduler) RunSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	swept, err := s.sweeper.SweepOverdue(ctx)
	if err != nil {
		log.Error("Overdue sweep failed", zap.Error(err))
		return
	}
	log.Debug("Overdue sweep finished", zap.Int("records", swept))
}

func (s *Scheduler) Start() {
	log.Info("Starting cron scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	log.Info("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
}
