package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/routetime/app"
	"github.com/kilianp07/routetime/infra/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the model and serve POST /predict",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, 0.0.0.0:5050)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Server.Address = v
	}
	log := logger.New("service")
	svc, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
