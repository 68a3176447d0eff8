package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/api"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/engine"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the simulation pipeline over HTTP",
	Long: `Starts an HTTP server exposing the risk pipeline.

Endpoints:
  GET  /health
  POST /api/v1/risk/simulate`,
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	eng := engine.New(log)
	handler := api.NewRiskHandler(eng, log)
	router := api.NewRouter(handler, log)
	server := api.NewServer(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
