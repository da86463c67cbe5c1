// Package scheduler runs periodic retraining and housekeeping tasks.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/newthinker/pricecast/internal/core"
	"github.com/newthinker/pricecast/internal/dashboard"
	"github.com/newthinker/pricecast/internal/modelapi"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SourceScheduler tags actions started by the scheduler.
const SourceScheduler = "scheduler"

// Trainer starts a model training run.
type Trainer interface {
	Train(ctx context.Context) (*modelapi.TrainResult, error)
}

// Scheduler manages cron tasks. Cron expressions include a seconds field.
type Scheduler struct {
	cron    *cron.Cron
	trainer Trainer
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a Scheduler. ctx bounds every scheduled run.
func New(ctx context.Context, trainer Trainer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		trainer: trainer,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ScheduleRetrain registers a retraining run on spec.
func (s *Scheduler) ScheduleRetrain(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.retrain); err != nil {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("register retrain task %q: %w", spec, err))
	}
	s.logger.Info("retraining scheduled", zap.String("spec", spec))
	return nil
}

// Every registers a named housekeeping task on spec.
func (s *Scheduler) Every(spec, name string, fn func()) error {
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("register %s task %q: %w", name, spec, err))
	}
	return nil
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("tasks", s.Len()))
}

// Stop stops the scheduler, cancels in-flight retraining and waits for
// running tasks to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunRetrainNow executes the retraining task immediately.
func (s *Scheduler) RunRetrainNow() {
	s.retrain()
}

func (s *Scheduler) retrain() {
	ctx := dashboard.WithSource(s.ctx, SourceScheduler)

	s.logger.Info("running scheduled retrain")
	res, err := s.trainer.Train(ctx)
	switch {
	case errors.Is(err, core.ErrTrainingInProgress):
		s.logger.Info("scheduled retrain skipped, training already in progress")
	case err != nil:
		s.logger.Error("scheduled retrain failed", zap.Error(err))
	default:
		s.logger.Info("scheduled retrain finished", zap.String("message", res.Message))
	}
}
