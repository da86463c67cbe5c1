package main

import (
	"testing"

	"github.com/newthinker/pricecast/internal/config"
	"go.uber.org/zap"
)

func TestNewArchiver(t *testing.T) {
	a, err := newArchiver(config.ArchiveConfig{Type: "none"})
	if err != nil || a != nil {
		t.Errorf("expected no archiver for none, got %v, %v", a, err)
	}

	a, err = newArchiver(config.ArchiveConfig{Type: "localfs", Path: t.TempDir()})
	if err != nil || a == nil {
		t.Errorf("expected localfs archiver, got %v, %v", a, err)
	}

	if _, err := newArchiver(config.ArchiveConfig{Type: "ftp"}); err == nil {
		t.Error("expected error for unknown archive type")
	}
}

func TestNewCommentator(t *testing.T) {
	c, err := newCommentator(config.LLMConfig{}, "BTC-USD")
	if err != nil || c != nil {
		t.Errorf("expected commentary disabled, got %v, %v", c, err)
	}

	c, err = newCommentator(config.LLMConfig{
		Provider: "ollama",
		Ollama:   config.OllamaConfig{Endpoint: "http://localhost:11434"},
	}, "BTC-USD")
	if err != nil || c == nil {
		t.Errorf("expected ollama commentator, got %v, %v", c, err)
	}
}

func TestNewNotifiers(t *testing.T) {
	reg, err := newNotifiers(config.NotifiersConfig{})
	if err != nil || reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d, %v", reg.Len(), err)
	}

	reg, err = newNotifiers(config.NotifiersConfig{Webhook: config.WebhookConfig{
		Enabled: true,
		URL:     "http://example.com/hook",
	}})
	if err != nil || reg.Len() != 1 {
		t.Errorf("expected webhook registered, got %v", err)
	}
}

func TestBuildComponents_Defaults(t *testing.T) {
	comps, err := buildComponents(config.Defaults(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comps.client.BaseURL() != "http://localhost:8001" {
		t.Errorf("unexpected base url %s", comps.client.BaseURL())
	}
	if comps.dashboard.HorizonDays() != 5 {
		t.Errorf("expected horizon 5, got %d", comps.dashboard.HorizonDays())
	}
}
