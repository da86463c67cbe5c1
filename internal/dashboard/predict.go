package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/newthinker/pricecast/internal/core"
	"go.uber.org/zap"
)

// Predict fetches a forecast over the configured horizon.
func (d *Dashboard) Predict(ctx context.Context) (*core.PredictionResponse, error) {
	return d.PredictDays(ctx, d.horizon)
}

// PredictDays fetches a forecast over days and stores it for rendering.
// A server-reported error is surfaced verbatim and leaves the chart
// untouched; it is returned as core.ErrModelReported. The training
// confirmation is dropped once a prediction starts.
func (d *Dashboard) PredictDays(ctx context.Context, days int) (*core.PredictionResponse, error) {
	d.mu.Lock()
	d.state.Error = ""
	d.state.Notice = ""
	d.mu.Unlock()

	resp, err := d.client.Predict(ctx, days)
	if err != nil {
		d.logger.Error("prediction failed", zap.Int("days", days), zap.Error(err))
		d.setError(MsgPredictFailed)
		d.finishPredict(ctx, core.StatusFailed, err.Error())
		return nil, err
	}

	if resp.HasError() {
		d.logger.Warn("model service reported an error", zap.String("error", resp.Error))
		d.setError(resp.Error)
		d.finishPredict(ctx, core.StatusRejected, resp.Error)
		return resp, core.WrapError(core.ErrModelReported, errors.New(resp.Error))
	}

	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.state.Historical = resp.Historical.Clone()
	d.state.Prediction = resp.Prediction.Clone()
	d.state.Days = days
	d.state.Commentary = ""
	d.state.ArchivePath = ""
	d.state.UpdatedAt = d.now()
	d.mu.Unlock()

	d.archive(ctx, gen, days, *resp)
	d.comment(ctx, gen, *resp)

	d.finishPredict(ctx, core.StatusSuccess,
		fmt.Sprintf("%d historical, %d predicted points", resp.Historical.Len(), resp.Prediction.Len()))
	return resp, nil
}

func (d *Dashboard) setError(msg string) {
	d.mu.Lock()
	d.state.Error = msg
	d.state.UpdatedAt = d.now()
	d.mu.Unlock()
}

func (d *Dashboard) finishPredict(ctx context.Context, status, details string) {
	if d.metrics != nil {
		d.metrics.RecordPredict(status)
	}
	d.record(ctx, core.ActionPredict, status, details)
}

func (d *Dashboard) archive(ctx context.Context, gen uint64, days int, resp core.PredictionResponse) {
	if d.archiver == nil {
		return
	}

	p, err := d.archiver.Save(ctx, d.symbol, days, resp)
	if d.metrics != nil {
		status := core.StatusSuccess
		if err != nil {
			status = core.StatusFailed
		}
		d.metrics.RecordArchiveWrite(status)
	}
	if err != nil {
		d.logger.Warn("failed to archive prediction", zap.Error(err))
		return
	}

	d.mu.Lock()
	if d.gen == gen {
		d.state.ArchivePath = p
	}
	d.mu.Unlock()
}

func (d *Dashboard) comment(ctx context.Context, gen uint64, resp core.PredictionResponse) {
	if d.commentator == nil {
		return
	}

	note, err := d.commentator.Describe(ctx, resp.Historical, resp.Prediction)
	if err != nil {
		d.logger.Warn("failed to generate commentary", zap.Error(err))
		return
	}

	d.mu.Lock()
	if d.gen == gen {
		d.state.Commentary = note
	}
	d.mu.Unlock()
}
