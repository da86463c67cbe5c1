// internal/llm/factory/factory_test.go
package factory

import (
	"testing"

	"github.com/newthinker/pricecast/internal/config"
)

func TestNew_Providers(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfig
	}{
		{"claude", config.LLMConfig{Provider: "claude", Claude: config.HostedLLMConfig{APIKey: "k"}}},
		{"openai", config.LLMConfig{Provider: "openai", OpenAI: config.HostedLLMConfig{APIKey: "k", Model: "gpt-4o"}}},
		{"ollama", config.LLMConfig{Provider: "ollama", Ollama: config.OllamaConfig{Endpoint: "http://localhost:11434"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tt.name {
				t.Errorf("expected %s provider, got %s", tt.name, p.Name())
			}
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(config.LLMConfig{Provider: "unknown"})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNew_MissingKey(t *testing.T) {
	for _, provider := range []string{"claude", "openai"} {
		_, err := New(config.LLMConfig{Provider: provider})
		if err == nil {
			t.Errorf("%s: expected error for missing API key", provider)
		}
	}
}
