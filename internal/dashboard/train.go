package dashboard

import (
	"context"
	"time"

	"github.com/newthinker/pricecast/internal/core"
	"github.com/newthinker/pricecast/internal/modelapi"
	"go.uber.org/zap"
)

// Train runs one training call against the model service. A second call
// while one is in flight is rejected with core.ErrTrainingInProgress.
func (d *Dashboard) Train(ctx context.Context) (*modelapi.TrainResult, error) {
	if err := d.acquire(ctx); err != nil {
		return nil, err
	}
	return d.runTrain(ctx)
}

// StartTrain sets the busy flag synchronously and finishes the training call
// in the background, invoking done (if non-nil) with the outcome.
func (d *Dashboard) StartTrain(ctx context.Context, done func(*modelapi.TrainResult, error)) error {
	if err := d.acquire(ctx); err != nil {
		return err
	}
	go func() {
		res, err := d.runTrain(ctx)
		if done != nil {
			done(res, err)
		}
	}()
	return nil
}

func (d *Dashboard) acquire(ctx context.Context) error {
	d.mu.Lock()
	if d.state.Training {
		d.mu.Unlock()
		if d.metrics != nil {
			d.metrics.RecordTrain(core.StatusRejected, 0)
		}
		d.record(ctx, core.ActionTrain, core.StatusRejected, core.ErrTrainingInProgress.Message)
		return core.ErrTrainingInProgress
	}
	d.state.Training = true
	d.state.Error = ""
	d.state.Notice = ""
	d.mu.Unlock()
	return nil
}

func (d *Dashboard) runTrain(ctx context.Context) (*modelapi.TrainResult, error) {
	start := time.Now()
	res, err := d.client.Train(ctx)
	elapsed := time.Since(start).Seconds()

	d.mu.Lock()
	d.state.Training = false
	if err != nil {
		d.state.Error = MsgTrainFailed
	} else {
		d.state.Notice = MsgTrained
	}
	d.state.UpdatedAt = d.now()
	d.mu.Unlock()

	status := core.StatusSuccess
	details := ""
	if err != nil {
		status = core.StatusFailed
		details = err.Error()
		d.logger.Error("training failed", zap.Error(err), zap.Float64("duration_s", elapsed))
	} else {
		details = res.Message
		d.logger.Info("model trained", zap.String("message", res.Message), zap.Float64("duration_s", elapsed))
	}

	if d.metrics != nil {
		d.metrics.RecordTrain(status, elapsed)
	}
	d.record(ctx, core.ActionTrain, status, details)

	return res, err
}
