package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/newthinker/pricecast/internal/core"
)

const commentarySystem = "You are a market analyst. Summarize a model's short-term price forecast " +
	"in two or three plain sentences. Describe direction and magnitude only; do not give advice."

// Commentator turns a forecast into a short human-readable note.
type Commentator struct {
	provider  Provider
	symbol    string
	maxTokens int
}

// NewCommentator creates a Commentator backed by provider.
func NewCommentator(provider Provider, symbol string, maxTokens int) *Commentator {
	return &Commentator{provider: provider, symbol: symbol, maxTokens: maxTokens}
}

// Describe asks the provider to summarize the forecast.
func (c *Commentator) Describe(ctx context.Context, historical, prediction core.PriceData) (string, error) {
	if prediction.Len() == 0 {
		return "", core.WrapError(core.ErrLLMFailed, fmt.Errorf("empty prediction"))
	}

	resp, err := c.provider.Complete(ctx, Request{
		System:      commentarySystem,
		Prompt:      BuildPrompt(c.symbol, historical, prediction),
		MaxTokens:   c.maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", core.WrapError(core.ErrLLMFailed, err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// BuildPrompt renders the forecast as plain text for the model.
func BuildPrompt(symbol string, historical, prediction core.PriceData) string {
	var sb strings.Builder
	if symbol == "" {
		symbol = "the asset"
	}
	fmt.Fprintf(&sb, "Forecast for %s.\n", symbol)

	lastDate, lastPrice, ok := historical.Last()
	if ok {
		fmt.Fprintf(&sb, "Last observed close: %.2f on %s.\n", lastPrice, lastDate)
	}

	sb.WriteString("Predicted closes:\n")
	n := min(len(prediction.Dates), len(prediction.Prices))
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "- %s: %.2f\n", prediction.Dates[i], prediction.Prices[i])
	}

	if ok && n > 0 && lastPrice != 0 {
		change := (prediction.Prices[n-1] - lastPrice) / lastPrice * 100
		fmt.Fprintf(&sb, "Change over the horizon: %+.2f%%.\n", change)
	}
	return sb.String()
}
