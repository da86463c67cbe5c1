// internal/api/handler/api/model.go
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/newthinker/pricecast/internal/api/job"
	"github.com/newthinker/pricecast/internal/api/response"
	"github.com/newthinker/pricecast/internal/chart"
	"github.com/newthinker/pricecast/internal/config"
	"github.com/newthinker/pricecast/internal/core"
	"github.com/newthinker/pricecast/internal/dashboard"
	"github.com/newthinker/pricecast/internal/modelapi"
	"go.uber.org/zap"
)

// SourceAPI tags actions started through the JSON API.
const SourceAPI = "api"

// Dashboard is the view state the model handlers drive.
type Dashboard interface {
	Snapshot() dashboard.View
	HorizonDays() int
	StartTrain(ctx context.Context, done func(*modelapi.TrainResult, error)) error
	PredictDays(ctx context.Context, days int) (*core.PredictionResponse, error)
}

// JobsGauge receives the number of unfinished jobs per type.
type JobsGauge interface {
	SetJobsActive(jobType string, count int)
}

// ChartResponse is the chart payload for GET /api/v1/chart.
type ChartResponse struct {
	Chart *chart.Chart `json:"chart"`
	Rows  []chart.Row  `json:"rows"`
	Hint  string       `json:"hint,omitempty"`
}

// ModelHandler handles training and prediction API requests.
type ModelHandler struct {
	dash     Dashboard
	jobStore *job.Store
	gauge    JobsGauge
	logger   *zap.Logger
}

// NewModelHandler creates a new model handler. gauge may be nil.
func NewModelHandler(dash Dashboard, jobStore *job.Store, gauge JobsGauge, logger *zap.Logger) *ModelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelHandler{dash: dash, jobStore: jobStore, gauge: gauge, logger: logger}
}

// State returns the current view state.
func (h *ModelHandler) State(w http.ResponseWriter, r *http.Request) {
	v := h.dash.Snapshot()
	response.JSON(w, http.StatusOK, v.State)
}

// Chart returns the assembled chart and predicted-values table.
func (h *ModelHandler) Chart(w http.ResponseWriter, r *http.Request) {
	v := h.dash.Snapshot()
	response.JSON(w, http.StatusOK, ChartResponse{Chart: v.Chart, Rows: v.Rows, Hint: v.Hint})
}

// Train starts a background training job.
func (h *ModelHandler) Train(w http.ResponseWriter, r *http.Request) {
	j := h.jobStore.Create(job.TypeTrain)
	jobID := j.ID

	ctx := dashboard.WithSource(context.WithoutCancel(r.Context()), SourceAPI)
	err := h.dash.StartTrain(ctx, func(res *modelapi.TrainResult, err error) {
		h.finish(jobID, res, err)
	})
	if err != nil {
		h.jobStore.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = asCoreError(err)
		})
		response.FromError(w, err)
		return
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		if j.Status == job.StatusPending {
			j.Status = job.StatusRunning
		}
	})
	h.updateGauge()

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": job.StatusRunning,
	})
}

func (h *ModelHandler) finish(jobID string, res *modelapi.TrainResult, err error) {
	h.jobStore.Update(jobID, func(j *job.Job) {
		if err != nil {
			j.Status = job.StatusFailed
			j.Error = asCoreError(err)
			return
		}
		j.Status = job.StatusComplete
		j.Result = map[string]string{"message": res.Message}
	})
	h.updateGauge()
}

func (h *ModelHandler) updateGauge() {
	if h.gauge != nil {
		h.gauge.SetJobsActive(job.TypeTrain, h.jobStore.Active(job.TypeTrain))
	}
}

// GetJob returns the status of a job.
func (h *ModelHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	j, err := h.jobStore.Get(jobID)
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id": j.ID,
		"type":   j.Type,
		"status": j.Status,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

// Predict fetches a forecast. The horizon comes from ?days=N and defaults
// to the configured horizon.
func (h *ModelHandler) Predict(w http.ResponseWriter, r *http.Request) {
	days := h.dash.HorizonDays()
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrInvalidHorizon, err))
			return
		}
		days = n
	}
	if days < 1 || days > config.MaxHorizonDays {
		response.Error(w, http.StatusBadRequest, core.ErrInvalidHorizon)
		return
	}

	ctx := dashboard.WithSource(r.Context(), SourceAPI)
	if _, err := h.dash.PredictDays(ctx, days); err != nil {
		h.logger.Debug("predict request failed", zap.Int("days", days), zap.Error(err))
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.dash.Snapshot())
}

func asCoreError(err error) *core.Error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return ce
	}
	return core.WrapError(core.ErrTrainFailed, err)
}
