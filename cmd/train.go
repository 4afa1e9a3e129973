package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/routetime/app"
	"github.com/kilianp07/routetime/core/training"
	"github.com/kilianp07/routetime/infra/logger"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the model on the route history and write the artifact",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().String("data", "", "route history: CSV path, sqlite:// URI or postgres:// DSN")
	trainCmd.Flags().String("model", "", "artifact output path")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if v, _ := cmd.Flags().GetString("data"); v != "" {
		cfg.Training.Data = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model.Path = v
	}
	res, err := app.Train(ctx, cfg, logger.New("trainer"))
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", time.Now().Format(time.DateTime), training.SuccessMessage)
	fmt.Fprintf(cmd.OutOrStdout(), "model %s written to %s (%d samples, rmse %.2fs, r2 %.3f)\n",
		res.ModelID, res.Path, res.Samples, res.Fit.RMSE, res.Fit.R2)
	return nil
}
