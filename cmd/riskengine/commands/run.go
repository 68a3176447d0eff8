package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/engine"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/marketdata/binance"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/report"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/simulation"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/statistics"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/config"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the risk pipeline once",
	Long: `Fetches historical daily closes from Binance, fits mean and covariance
of the log returns, simulates correlated paths, and prints the risk report.

Example:
  riskengine run --tickers BTCUSDT,ETHUSDT --days-back 730 --days 20 --paths 20000 --seed 42
  riskengine run --tickers BTCUSDT,ETHUSDT,SOLUSDT --weights 0.5,0.3,0.2 --charts`,
	RunE: runPipeline,
}

var (
	runTickers     string
	runDaysBack    int
	runDays        int
	runPaths       int
	runSeed        uint64
	runInitial     float64
	runWeights     string
	runConfidences string
	runCharts      bool
	runRegularize  float64
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runTickers, "tickers", "BTCUSDT,ETHUSDT", "comma-separated Binance symbols")
	runCmd.Flags().IntVar(&runDaysBack, "days-back", 730, "daily candles used for fitting")
	runCmd.Flags().IntVar(&runDays, "days", 20, "simulation horizon in days")
	runCmd.Flags().IntVar(&runPaths, "paths", 20000, "number of Monte Carlo paths")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 42, "random seed (0 for time-based)")
	runCmd.Flags().Float64Var(&runInitial, "initial", 1.0, "initial portfolio value")
	runCmd.Flags().StringVar(&runWeights, "weights", "", "comma-separated weights (default: equal)")
	runCmd.Flags().StringVar(&runConfidences, "confidence", "0.95,0.99", "comma-separated confidence levels")
	runCmd.Flags().BoolVar(&runCharts, "charts", false, "write PNG charts to the report directory")
	runCmd.Flags().Float64Var(&runRegularize, "regularize", 0, "ridge added to the covariance diagonal")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	symbols := splitList(runTickers)
	if len(symbols) == 0 {
		return fmt.Errorf("no tickers given")
	}

	weights, err := parseFloats(runWeights)
	if err != nil {
		return fmt.Errorf("parse weights: %w", err)
	}
	confidences, err := parseFloats(runConfidences)
	if err != nil {
		return fmt.Errorf("parse confidence levels: %w", err)
	}

	ctx := context.Background()
	client := binance.NewClient(cfg.Binance, log)

	log.WithFields(map[string]interface{}{
		"symbols":   symbols,
		"days_back": runDaysBack,
	}).Info("Fetching historical prices")
	prices, err := client.LoadPriceSet(ctx, symbols, runDaysBack)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	returns, err := statistics.LogReturns(prices.Prices)
	if err != nil {
		return err
	}
	var opts []simulation.Option
	if runRegularize != 0 {
		opts = append(opts, simulation.WithRegularization(runRegularize))
	}
	stats, err := statistics.EstimateStatistics(returns, opts...)
	if err != nil {
		return err
	}

	eng := engine.New(log)
	result, err := eng.Run(engine.Request{
		Stats: stats,
		Config: simulation.Config{
			HorizonDays: runDays,
			NumPaths:    runPaths,
			Seed:        runSeed,
		},
		Weights:      weights,
		InitialValue: runInitial,
		Confidences:  confidences,
	})
	if err != nil {
		return err
	}

	if err := report.WriteSummary(os.Stdout, symbols, result.Report); err != nil {
		return err
	}

	if runCharts {
		writer := report.NewWriter(cfg.ReportDir, log)
		files, err := writer.Save(result, symbols, runInitial)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println("wrote", f)
		}
	}

	return nil
}

// loadConfigAndLogger is the shared command bootstrap.
func loadConfigAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
