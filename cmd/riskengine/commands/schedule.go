package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/engine"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/marketdata/binance"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/report"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/scheduler"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/scheduler/jobs"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/simulation"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Regenerate the risk report on a cron schedule",
	Long: `Runs the full pipeline (fetch, fit, simulate, report) on a cron
schedule and writes report files each time.

Example:
  riskengine schedule --cron "0 0 7 * * *" --tickers BTCUSDT,ETHUSDT`,
	RunE: runSchedule,
}

var (
	scheduleCron     string
	scheduleTickers  string
	scheduleDaysBack int
	scheduleDays     int
	schedulePaths    int
	scheduleInitial  float64
	scheduleNow      bool
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "0 0 7 * * *", "six-field cron expression")
	scheduleCmd.Flags().StringVar(&scheduleTickers, "tickers", "BTCUSDT,ETHUSDT", "comma-separated Binance symbols")
	scheduleCmd.Flags().IntVar(&scheduleDaysBack, "days-back", 730, "daily candles used for fitting")
	scheduleCmd.Flags().IntVar(&scheduleDays, "days", 20, "simulation horizon in days")
	scheduleCmd.Flags().IntVar(&schedulePaths, "paths", 20000, "number of Monte Carlo paths")
	scheduleCmd.Flags().Float64Var(&scheduleInitial, "initial", 1.0, "initial portfolio value")
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "also run the job immediately on startup")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	symbols := splitList(scheduleTickers)
	if len(symbols) == 0 {
		return fmt.Errorf("no tickers given")
	}

	job := jobs.NewRiskReportJob(
		binance.NewClient(cfg.Binance, log),
		engine.New(log),
		report.NewWriter(cfg.ReportDir, log),
		log,
		symbols,
		scheduleDaysBack,
		simulation.Config{
			HorizonDays: scheduleDays,
			NumPaths:    schedulePaths,
		},
		scheduleInitial,
		scheduleCron,
	)

	sched := scheduler.New(log)
	if err := sched.AddJob(job); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if scheduleNow {
		if err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.WithField("signal", sig.String()).Info("Received shutdown signal")
	return nil
}
