package chart

import (
	"encoding/json"
	"testing"

	"github.com/newthinker/pricecast/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(dates []string, prices []float64) core.PriceData {
	return core.PriceData{Dates: dates, Prices: prices}
}

func TestAssemble_LabelsConcatenateInOrder(t *testing.T) {
	hist := series([]string{"d1", "d2", "d3"}, []float64{1, 2, 3})
	pred := series([]string{"d4", "d5"}, []float64{4, 5})

	c := Assemble("BTC", hist, pred)

	assert.Equal(t, []string{"d1", "d2", "d3", "d4", "d5"}, c.Labels)
}

func TestAssemble_PaddingMatchesComplementarySeries(t *testing.T) {
	hist := series([]string{"d1", "d2", "d3"}, []float64{1, 2, 3})
	pred := series([]string{"d4", "d5"}, []float64{4, 5})

	c := Assemble("BTC", hist, pred)
	require.Len(t, c.Datasets, 2)

	histData := c.Datasets[0].Data
	predData := c.Datasets[1].Data
	require.Len(t, histData, 5)
	require.Len(t, predData, 5)

	for i := 0; i < 3; i++ {
		require.NotNil(t, histData[i])
		assert.Equal(t, hist.Prices[i], *histData[i])
		assert.Nil(t, predData[i], "prediction should be padded over historical span")
	}
	for i := 3; i < 5; i++ {
		assert.Nil(t, histData[i], "historical should be padded over prediction span")
		require.NotNil(t, predData[i])
		assert.Equal(t, pred.Prices[i-3], *predData[i])
	}
}

func TestAssemble_Empty(t *testing.T) {
	c := Assemble("", core.PriceData{}, core.PriceData{})
	assert.Empty(t, c.Labels)
	assert.Empty(t, c.Datasets[0].Data)
	assert.Empty(t, c.Datasets[1].Data)
}

func TestAssemble_OnlyPrediction(t *testing.T) {
	c := Assemble("", core.PriceData{}, series([]string{"d1"}, []float64{7}))
	assert.Equal(t, []string{"d1"}, c.Labels)
	assert.Nil(t, c.Datasets[0].Data[0])
	assert.Equal(t, 7.0, *c.Datasets[1].Data[0])
}

func TestAssemble_JSONUsesNullPlaceholders(t *testing.T) {
	c := Assemble("", series([]string{"a"}, []float64{1.5}), series([]string{"b"}, []float64{2}))

	raw, err := json.Marshal(c.Datasets[0].Data)
	require.NoError(t, err)
	assert.Equal(t, `[1.5,null]`, string(raw))

	raw, err = json.Marshal(c.Datasets[1].Data)
	require.NoError(t, err)
	assert.Equal(t, `[null,2]`, string(raw))
}

func TestAssemble_Styling(t *testing.T) {
	c := Assemble("", core.PriceData{}, core.PriceData{})
	assert.Equal(t, "Historical Data", c.Datasets[0].Label)
	assert.Equal(t, 0, c.Datasets[0].PointRadius)
	assert.Empty(t, c.Datasets[0].BorderDash)
	assert.Equal(t, "Predictions", c.Datasets[1].Label)
	assert.Equal(t, []int{5, 5}, c.Datasets[1].BorderDash)
	assert.Equal(t, 5, c.Datasets[1].PointRadius)
}

func TestAssemble_DoesNotAliasInput(t *testing.T) {
	hist := series([]string{"a"}, []float64{1})
	c := Assemble("", hist, core.PriceData{})
	*c.Datasets[0].Data[0] = 99
	assert.Equal(t, 1.0, hist.Prices[0])
}

func TestPadding(t *testing.T) {
	assert.Len(t, Padding(3), 3)
	assert.Empty(t, Padding(0))
	assert.Empty(t, Padding(-1))
	for _, p := range Padding(2) {
		assert.Nil(t, p)
	}
}

func TestRows(t *testing.T) {
	rows := Rows(series([]string{"2023-09-02", "2023-09-03"}, []float64{25900.456, 26010}))
	assert.Equal(t, []Row{
		{Date: "2023-09-02", Price: "$25900.46"},
		{Date: "2023-09-03", Price: "$26010.00"},
	}, rows)
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1.005, "$1.01"},
		{2.675, "$2.68"},
		{-1.005, "$-1.01"},
		{123.4, "$123.40"},
		{-2.5, "$-2.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUSD(tt.in), "FormatUSD(%v)", tt.in)
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "BTC-USD Historical Prices and Predictions", Title("BTC-USD"))
	assert.Equal(t, "Historical Prices and Predictions", Title(""))
}
