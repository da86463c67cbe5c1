// internal/llm/factory/factory.go
package factory

import (
	"fmt"

	"github.com/newthinker/pricecast/internal/config"
	"github.com/newthinker/pricecast/internal/llm"
	"github.com/newthinker/pricecast/internal/llm/claude"
	"github.com/newthinker/pricecast/internal/llm/ollama"
	"github.com/newthinker/pricecast/internal/llm/openai"
)

// New creates an LLM provider based on configuration.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	var (
		p   llm.Provider
		err error
	)
	switch cfg.Provider {
	case "claude":
		p, err = claude.New(cfg.Claude.APIKey, cfg.Claude.Model, cfg.Claude.BaseURL)
	case "openai":
		p, err = openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	case "ollama":
		p, err = ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
