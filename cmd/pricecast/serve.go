package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newthinker/pricecast/internal/api"
	"github.com/newthinker/pricecast/internal/api/job"
	"github.com/newthinker/pricecast/internal/logger"
	"github.com/newthinker/pricecast/internal/metrics"
	"github.com/newthinker/pricecast/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var templatesDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard and API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&templatesDir, "templates", "", "load page templates from this directory instead of the embedded ones")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize logger
	log, err := logger.New(debug, logLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	comps, err := buildComponents(cfg, reg, log)
	if err != nil {
		return err
	}

	jobs := job.NewStore(cfg.Server.MaxJobs, time.Duration(cfg.Server.JobTTLHours)*time.Hour)

	deps := api.Dependencies{
		Dashboard: comps.dashboard,
		Jobs:      jobs,
		History:   comps.history,
		Model:     comps.client,
	}
	if reg != nil {
		deps.Metrics = reg
	}

	log.Info("starting PriceCast server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("model", comps.client.BaseURL()),
		zap.Int("horizon_days", cfg.Model.HorizonDays),
	)

	server, err := api.NewServer(api.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		APIKey:       cfg.Server.APIKey,
		TemplatesDir: templatesDir,
		MetricsPath:  cfg.Metrics.Path,
		ModelTimeout: cfg.Model.Timeout,
	}, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, comps.dashboard, log)
	if cfg.Model.RetrainSchedule != "" {
		if err := sched.ScheduleRetrain(cfg.Model.RetrainSchedule); err != nil {
			return err
		}
	}
	if err := sched.Every("0 * * * * *", "job purge", func() {
		if n := jobs.PurgeExpired(); n > 0 {
			log.Debug("purged expired jobs", zap.Int("count", n))
		}
	}); err != nil {
		return err
	}
	sched.Start()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			log.Error("server error", zap.Error(err))
			cancel()
			sched.Stop()
			return err
		}
	}

	log.Info("shutting down PriceCast server")
	cancel()
	sched.Stop()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}
