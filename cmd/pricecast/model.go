package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/newthinker/pricecast/internal/chart"
	"github.com/newthinker/pricecast/internal/core"
	"github.com/newthinker/pricecast/internal/dashboard"
	"github.com/newthinker/pricecast/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const sourceCLI = "cli"

var predictDays int

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the model once and exit",
	RunE:  runTrain,
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Fetch a forecast and print the predicted values",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().IntVar(&predictDays, "days", 0, "prediction horizon in days (default from config)")
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
}

// withDashboard handles common setup for one-shot commands.
func withDashboard(fn func(ctx context.Context, d *dashboard.Dashboard, log *zap.Logger) error) error {
	log, err := logger.New(debug, logLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	comps, err := buildComponents(cfg, nil, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return fn(dashboard.WithSource(ctx, sourceCLI), comps.dashboard, log)
}

func runTrain(cmd *cobra.Command, args []string) error {
	return withDashboard(func(ctx context.Context, d *dashboard.Dashboard, log *zap.Logger) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Training...")
		if _, err := d.Train(ctx); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), d.Snapshot().Error)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.Snapshot().Notice)
		return nil
	})
}

func runPredict(cmd *cobra.Command, args []string) error {
	return withDashboard(func(ctx context.Context, d *dashboard.Dashboard, log *zap.Logger) error {
		days := predictDays
		if days == 0 {
			days = d.HorizonDays()
		}

		if _, err := d.PredictDays(ctx, days); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), predictErrorMessage(d.Snapshot(), err))
			return err
		}

		v := d.Snapshot()
		printRows(cmd.OutOrStdout(), v.Rows)
		if v.Commentary != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", v.Commentary)
		}
		log.Debug("prediction printed", zap.Int("rows", len(v.Rows)), zap.String("archive", v.ArchivePath))
		return nil
	})
}

// predictErrorMessage prefers the user-facing message held in the view state.
func predictErrorMessage(v dashboard.View, err error) string {
	if v.Error != "" {
		return v.Error
	}
	if errors.Is(err, core.ErrInvalidHorizon) {
		return "Invalid prediction horizon."
	}
	return dashboard.MsgPredictFailed
}

func printRows(out io.Writer, rows []chart.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No predicted values.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPREDICTED PRICE\t")
	fmt.Fprintln(w, "----\t---------------\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t\n", r.Date, r.Price)
	}
	w.Flush()
}
