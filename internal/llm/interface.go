// Package llm provides text-completion backends used to annotate forecasts.
package llm

import "context"

// Provider defines the interface for LLM backends
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request is a single-turn completion request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response holds the generated text and token usage.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

const defaultMaxTokens = 512

// MaxTokensOrDefault returns req.MaxTokens, or a default when unset.
func (r Request) MaxTokensOrDefault() int {
	if r.MaxTokens <= 0 {
		return defaultMaxTokens
	}
	return r.MaxTokens
}
