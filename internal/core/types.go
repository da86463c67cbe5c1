package core

import "fmt"

// PriceData is a date/price series. Dates and Prices are positionally aligned.
type PriceData struct {
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
}

// Len returns the number of points in the series.
func (p PriceData) Len() int {
	return len(p.Dates)
}

// IsEmpty reports whether the series has no points.
func (p PriceData) IsEmpty() bool {
	return len(p.Dates) == 0 && len(p.Prices) == 0
}

// Validate checks that dates and prices have the same length.
func (p PriceData) Validate() error {
	if len(p.Dates) != len(p.Prices) {
		return fmt.Errorf("series misaligned: %d dates, %d prices", len(p.Dates), len(p.Prices))
	}
	return nil
}

// Last returns the final date and price of the series.
func (p PriceData) Last() (string, float64, bool) {
	if len(p.Dates) == 0 || len(p.Prices) == 0 {
		return "", 0, false
	}
	return p.Dates[len(p.Dates)-1], p.Prices[len(p.Prices)-1], true
}

// Clone returns a deep copy of the series.
func (p PriceData) Clone() PriceData {
	out := PriceData{}
	if p.Dates != nil {
		out.Dates = append([]string(nil), p.Dates...)
	}
	if p.Prices != nil {
		out.Prices = append([]float64(nil), p.Prices...)
	}
	return out
}

// PredictionResponse is the envelope returned by the model service's
// predict endpoint. A non-empty Error is a failure reported by the
// service itself, as opposed to a transport failure.
type PredictionResponse struct {
	Prediction PriceData `json:"prediction"`
	Historical PriceData `json:"historical"`
	Error      string    `json:"error,omitempty"`
}

// HasError reports whether the service reported an application error.
func (r PredictionResponse) HasError() bool {
	return r.Error != ""
}

// Validate checks both series for alignment.
func (r PredictionResponse) Validate() error {
	if err := r.Historical.Validate(); err != nil {
		return fmt.Errorf("historical: %w", err)
	}
	if err := r.Prediction.Validate(); err != nil {
		return fmt.Errorf("prediction: %w", err)
	}
	return nil
}

// Action names recorded in the action history.
const (
	ActionTrain   = "train"
	ActionPredict = "predict"
)

// Status values for actions and notifications.
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusRejected = "rejected"
)
