package main

import (
	"fmt"

	"github.com/newthinker/pricecast/internal/config"
	"github.com/newthinker/pricecast/internal/dashboard"
	"github.com/newthinker/pricecast/internal/llm"
	"github.com/newthinker/pricecast/internal/llm/factory"
	"github.com/newthinker/pricecast/internal/metrics"
	"github.com/newthinker/pricecast/internal/modelapi"
	"github.com/newthinker/pricecast/internal/notifier"
	"github.com/newthinker/pricecast/internal/notifier/webhook"
	"github.com/newthinker/pricecast/internal/storage/archive"
	"github.com/newthinker/pricecast/internal/storage/history"
	"go.uber.org/zap"
)

// loadConfig reads --config, falling back to defaults, and validates it.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// components are the collaborators shared by serve and the one-shot commands.
type components struct {
	client    *modelapi.Client
	dashboard *dashboard.Dashboard
	history   history.Store
}

func buildComponents(cfg *config.Config, reg *metrics.Registry, log *zap.Logger) (*components, error) {
	clientOpts := []modelapi.Option{modelapi.WithTimeout(cfg.Model.Timeout)}
	if reg != nil {
		clientOpts = append(clientOpts, modelapi.WithRecorder(reg))
	}
	client, err := modelapi.New(cfg.Model.BaseURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}

	store := history.NewMemoryStore(cfg.History.MaxEntries)
	opts := dashboard.Options{
		Symbol:      cfg.Model.Symbol,
		HorizonDays: cfg.Model.HorizonDays,
		History:     store,
		Logger:      log,
	}
	if reg != nil {
		opts.Metrics = reg
	}

	arch, err := newArchiver(cfg.Storage.Archive)
	if err != nil {
		return nil, err
	}
	if arch != nil {
		opts.Archiver = arch
		log.Info("prediction archive enabled", zap.String("type", cfg.Storage.Archive.Type))
	}

	commentator, err := newCommentator(cfg.LLM, cfg.Model.Symbol)
	if err != nil {
		return nil, err
	}
	if commentator != nil {
		opts.Commentator = commentator
		log.Info("forecast commentary enabled", zap.String("provider", cfg.LLM.Provider))
	}

	notifiers, err := newNotifiers(cfg.Notifiers)
	if err != nil {
		return nil, err
	}
	if notifiers.Len() > 0 {
		opts.Notifiers = notifiers
		log.Info("notifiers enabled", zap.Strings("notifiers", notifiers.Names()))
	}

	return &components{
		client:    client,
		dashboard: dashboard.New(client, opts),
		history:   store,
	}, nil
}

func newArchiver(cfg config.ArchiveConfig) (*archive.Archiver, error) {
	var storage archive.Storage
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "localfs":
		fs, err := archive.NewLocalFS(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("creating local archive: %w", err)
		}
		storage = fs
	case "s3":
		s3, err := archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("creating s3 archive: %w", err)
		}
		storage = s3
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}
	return archive.NewArchiver(storage), nil
}

func newCommentator(cfg config.LLMConfig, symbol string) (*llm.Commentator, error) {
	if cfg.Provider == "" {
		return nil, nil
	}
	provider, err := factory.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating llm provider: %w", err)
	}
	return llm.NewCommentator(provider, symbol, cfg.MaxTokens), nil
}

func newNotifiers(cfg config.NotifiersConfig) (*notifier.Registry, error) {
	reg := notifier.NewRegistry()
	if cfg.Webhook.Enabled {
		w, err := webhook.New(cfg.Webhook.URL, cfg.Webhook.Headers)
		if err != nil {
			return nil, fmt.Errorf("creating webhook notifier: %w", err)
		}
		if err := reg.Register(w); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
