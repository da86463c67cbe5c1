// Package chart shapes historical and predicted series for a line chart.
package chart

import (
	"fmt"

	"github.com/newthinker/pricecast/internal/core"
	"github.com/shopspring/decimal"
)

// Dataset is one line on the chart. Nil entries are gaps.
type Dataset struct {
	Label                string     `json:"label"`
	Data                 []*float64 `json:"data"`
	BorderColor          string     `json:"borderColor"`
	BackgroundColor      string     `json:"backgroundColor"`
	BorderDash           []int      `json:"borderDash,omitempty"`
	PointRadius          int        `json:"pointRadius"`
	PointBackgroundColor string     `json:"pointBackgroundColor,omitempty"`
	Fill                 bool       `json:"fill"`
}

// Chart is the label axis plus the historical and prediction datasets.
type Chart struct {
	Title    string    `json:"title"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Row is one line of the predicted-values table.
type Row struct {
	Date  string `json:"date"`
	Price string `json:"price"`
}

// Title builds the chart heading for a symbol.
func Title(symbol string) string {
	if symbol == "" {
		return "Historical Prices and Predictions"
	}
	return symbol + " Historical Prices and Predictions"
}

// Assemble concatenates the two label axes and pads each dataset with
// nulls over the other series' span, so the lines sit end to end.
func Assemble(title string, historical, prediction core.PriceData) Chart {
	histLen := len(historical.Prices)
	predLen := len(prediction.Prices)

	labels := make([]string, 0, len(historical.Dates)+len(prediction.Dates))
	labels = append(labels, historical.Dates...)
	labels = append(labels, prediction.Dates...)

	histData := make([]*float64, 0, histLen+predLen)
	histData = append(histData, points(historical.Prices)...)
	histData = append(histData, Padding(predLen)...)

	predData := make([]*float64, 0, histLen+predLen)
	predData = append(predData, Padding(histLen)...)
	predData = append(predData, points(prediction.Prices)...)

	return Chart{
		Title:  title,
		Labels: labels,
		Datasets: []Dataset{
			{
				Label:           "Historical Data",
				Data:            histData,
				BorderColor:     "rgb(59, 130, 246)",
				BackgroundColor: "rgba(59, 130, 246, 0.5)",
				PointRadius:     0,
			},
			{
				Label:                "Predictions",
				Data:                 predData,
				BorderColor:          "rgb(34, 197, 94)",
				BackgroundColor:      "rgba(34, 197, 94, 0.5)",
				BorderDash:           []int{5, 5},
				PointRadius:          5,
				PointBackgroundColor: "rgb(34, 197, 94)",
			},
		},
	}
}

// Padding returns n null placeholders.
func Padding(n int) []*float64 {
	if n <= 0 {
		return []*float64{}
	}
	return make([]*float64, n)
}

func points(prices []float64) []*float64 {
	out := make([]*float64, len(prices))
	for i := range prices {
		v := prices[i]
		out[i] = &v
	}
	return out
}

// Rows lists each predicted date with its price as USD.
func Rows(prediction core.PriceData) []Row {
	n := min(len(prediction.Dates), len(prediction.Prices))
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		rows[i] = Row{
			Date:  prediction.Dates[i],
			Price: FormatUSD(prediction.Prices[i]),
		}
	}
	return rows
}

// FormatUSD renders a price with a dollar sign and two decimals. Rounding
// is half away from zero on the shortest decimal form of price, so 1.005
// renders as $1.01 and 2.675 as $2.68.
func FormatUSD(price float64) string {
	return fmt.Sprintf("$%s", decimal.NewFromFloat(price).StringFixed(2))
}
