package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/newthinker/pricecast/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestLoad_FromFile(t *testing.T) {
	cfgPath := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9090

model:
  base_url: "http://model:8001"
  timeout: 30s
  retrain_schedule: "0 0 3 * * *"

storage:
  archive:
    type: localfs
    path: "/tmp/pricecast/archive"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Model.BaseURL != "http://model:8001" {
		t.Errorf("expected model base_url, got %s", cfg.Model.BaseURL)
	}
	if cfg.Model.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.Model.Timeout)
	}
	if cfg.Storage.Archive.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Storage.Archive.Type)
	}

	// Unset keys keep their defaults
	if cfg.Model.HorizonDays != 5 {
		t.Errorf("expected default horizon 5, got %d", cfg.Model.HorizonDays)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("expected default metrics path, got %s", cfg.Metrics.Path)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_PRICECAST_KEY", "secret-key")
	cfgPath := writeConfig(t, `
llm:
  provider: claude
  claude:
    api_key: "${TEST_PRICECAST_KEY}"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.LLM.Claude.APIKey != "secret-key" {
		t.Errorf("expected expanded api key, got %q", cfg.LLM.Claude.APIKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Model.BaseURL != "http://localhost:8001" {
		t.Errorf("expected default base url, got %s", cfg.Model.BaseURL)
	}
	if cfg.Model.HorizonDays != 5 {
		t.Errorf("expected default horizon 5, got %d", cfg.Model.HorizonDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if s.Addr() != "127.0.0.1:8080" {
		t.Errorf("unexpected addr %s", s.Addr())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr *core.Error
	}{
		{"valid config", func(*Config) {}, nil},
		{"invalid port - zero", func(c *Config) { c.Server.Port = 0 }, core.ErrConfigInvalid},
		{"invalid port - too high", func(c *Config) { c.Server.Port = 70000 }, core.ErrConfigInvalid},
		{"missing base url", func(c *Config) { c.Model.BaseURL = "" }, core.ErrConfigMissing},
		{"relative base url", func(c *Config) { c.Model.BaseURL = "localhost:8001" }, core.ErrConfigInvalid},
		{"horizon zero", func(c *Config) { c.Model.HorizonDays = 0 }, core.ErrConfigInvalid},
		{"horizon too large", func(c *Config) { c.Model.HorizonDays = 31 }, core.ErrConfigInvalid},
		{"localfs without path", func(c *Config) { c.Storage.Archive.Type = "localfs" }, core.ErrConfigMissing},
		{"s3 without bucket", func(c *Config) { c.Storage.Archive.Type = "s3" }, core.ErrConfigMissing},
		{"unknown archive", func(c *Config) { c.Storage.Archive.Type = "ftp" }, core.ErrConfigInvalid},
		{"claude without key", func(c *Config) { c.LLM.Provider = "claude" }, core.ErrConfigMissing},
		{"unknown llm", func(c *Config) { c.LLM.Provider = "gemini" }, core.ErrConfigInvalid},
		{"webhook without url", func(c *Config) { c.Notifiers.Webhook.Enabled = true }, core.ErrConfigMissing},
		{"negative history", func(c *Config) { c.History.MaxEntries = -1 }, core.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %s", err, tt.wantErr.Code)
			}
		})
	}
}
