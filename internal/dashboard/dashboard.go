// Package dashboard holds the shared view state behind the training and
// prediction controls.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/newthinker/pricecast/internal/chart"
	"github.com/newthinker/pricecast/internal/core"
	"github.com/newthinker/pricecast/internal/modelapi"
	"github.com/newthinker/pricecast/internal/notifier"
	"github.com/newthinker/pricecast/internal/storage/history"
	"go.uber.org/zap"
)

// User-facing messages.
const (
	MsgTrained       = "Model trained successfully!"
	MsgTrainFailed   = "An error occurred while training the model."
	MsgPredictFailed = "An error occurred while fetching predictions."
	MsgPredictHint   = `Click "Predict" to display the chart.`
)

// DefaultHorizonDays is the prediction horizon when none is configured.
const DefaultHorizonDays = 5

// ModelClient is the subset of the model-service client the dashboard uses.
type ModelClient interface {
	Train(ctx context.Context) (*modelapi.TrainResult, error)
	Predict(ctx context.Context, days int) (*core.PredictionResponse, error)
}

// Archiver persists successful predictions.
type Archiver interface {
	Save(ctx context.Context, symbol string, days int, resp core.PredictionResponse) (string, error)
}

// Commentator produces a short note about a forecast.
type Commentator interface {
	Describe(ctx context.Context, historical, prediction core.PriceData) (string, error)
}

// Metrics receives action outcomes.
type Metrics interface {
	RecordTrain(status string, duration float64)
	RecordPredict(status string)
	RecordArchiveWrite(status string)
}

// Options configures optional collaborators. Nil fields are skipped.
type Options struct {
	Symbol      string
	HorizonDays int
	History     history.Store
	Notifiers   *notifier.Registry
	Archiver    Archiver
	Commentator Commentator
	Metrics     Metrics
	Logger      *zap.Logger
}

// State is the user-visible view state.
type State struct {
	Training    bool           `json:"training"`
	Notice      string         `json:"notice,omitempty"`
	Error       string         `json:"error,omitempty"`
	Symbol      string         `json:"symbol,omitempty"`
	Days        int            `json:"days"`
	Historical  core.PriceData `json:"historical"`
	Prediction  core.PriceData `json:"prediction"`
	Commentary  string         `json:"commentary,omitempty"`
	ArchivePath string         `json:"archive_path,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

// HasData reports whether either series has points to draw.
func (s State) HasData() bool {
	return !s.Historical.IsEmpty() || !s.Prediction.IsEmpty()
}

// View is a State plus the rendered chart and table.
type View struct {
	State
	Chart *chart.Chart `json:"chart,omitempty"`
	Rows  []chart.Row  `json:"rows"`
	Hint  string       `json:"hint,omitempty"`
}

// Dashboard owns the view state shared by every client.
type Dashboard struct {
	client      ModelClient
	symbol      string
	horizon     int
	history     history.Store
	notifiers   *notifier.Registry
	archiver    Archiver
	commentator Commentator
	metrics     Metrics
	logger      *zap.Logger
	now         func() time.Time

	mu    sync.RWMutex
	state State
	gen   uint64
}

// New creates a Dashboard around a model-service client.
func New(client ModelClient, opts Options) *Dashboard {
	horizon := opts.HorizonDays
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		client:      client,
		symbol:      opts.Symbol,
		horizon:     horizon,
		history:     opts.History,
		notifiers:   opts.Notifiers,
		archiver:    opts.Archiver,
		commentator: opts.Commentator,
		metrics:     opts.Metrics,
		logger:      logger,
		now:         time.Now,
		state:       State{Symbol: opts.Symbol, Days: horizon},
	}
}

// HorizonDays returns the configured prediction horizon.
func (d *Dashboard) HorizonDays() int {
	return d.horizon
}

// Busy reports whether a training call is in flight.
func (d *Dashboard) Busy() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.Training
}

// Snapshot returns a copy of the state with the chart assembled.
func (d *Dashboard) Snapshot() View {
	d.mu.RLock()
	st := d.state
	st.Historical = d.state.Historical.Clone()
	st.Prediction = d.state.Prediction.Clone()
	d.mu.RUnlock()

	v := View{State: st, Rows: chart.Rows(st.Prediction)}
	if st.HasData() {
		c := chart.Assemble(chart.Title(st.Symbol), st.Historical, st.Prediction)
		v.Chart = &c
	} else {
		v.Hint = MsgPredictHint
	}
	return v
}

type sourceKey struct{}

// WithSource tags ctx with the origin of an action (web, api, cli, scheduler).
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the action origin stored by WithSource.
func SourceFrom(ctx context.Context) string {
	s, _ := ctx.Value(sourceKey{}).(string)
	return s
}

func (d *Dashboard) record(ctx context.Context, action, status, details string) {
	if d.history != nil {
		_, err := d.history.Record(ctx, history.Entry{
			Action:  action,
			Status:  status,
			Details: details,
			Source:  SourceFrom(ctx),
		})
		if err != nil {
			d.logger.Warn("failed to record history", zap.String("action", action), zap.Error(err))
		}
	}

	if d.notifiers != nil {
		event := notifier.Event{
			Type:    notifier.EventTypeAction,
			Action:  action,
			Status:  status,
			Message: details,
			At:      d.now(),
		}
		for name, err := range d.notifiers.NotifyAll(ctx, event) {
			d.logger.Warn("notifier failed", zap.String("notifier", name), zap.Error(err))
		}
	}
}
