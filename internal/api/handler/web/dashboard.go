// internal/api/handler/web/dashboard.go
package web

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/newthinker/pricecast/internal/dashboard"
	"go.uber.org/zap"
)

// SourceWeb tags actions started from the dashboard page.
const SourceWeb = "web"

// DashboardData holds data for the dashboard template
type DashboardData struct {
	Title     string
	View      dashboard.View
	ChartJSON template.JS
	// Refresh makes the page poll while training is in flight.
	Refresh bool
}

// Dashboard renders the dashboard page
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	v := h.dash.Snapshot()

	data := DashboardData{
		Title:   "Model Trainer",
		View:    v,
		Refresh: v.Training,
	}

	if v.Chart != nil {
		raw, err := json.Marshal(v.Chart)
		if err != nil {
			h.logger.Error("encoding chart", zap.Error(err))
			http.Error(w, "encoding chart", http.StatusInternalServerError)
			return
		}
		data.ChartJSON = template.JS(raw)
	}

	h.render(w, "dashboard.html", data)
}

// Train starts training in the background and redirects to the dashboard,
// which shows the busy state until the call completes.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	ctx := dashboard.WithSource(context.WithoutCancel(r.Context()), SourceWeb)
	if err := h.dash.StartTrain(ctx, nil); err != nil {
		h.logger.Info("train request ignored", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Predict fetches a forecast and redirects to the dashboard.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := dashboard.WithSource(r.Context(), SourceWeb)
	if _, err := h.dash.Predict(ctx); err != nil {
		h.logger.Debug("predict request failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
