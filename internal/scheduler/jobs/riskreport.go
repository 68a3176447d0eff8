// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/engine"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/marketdata/binance"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/report"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/simulation"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/statistics"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/logger"
)

// RiskReportJob refits statistics from fresh market data and regenerates
// the risk report on a cron schedule.
type RiskReportJob struct {
	client *binance.Client
	engine *engine.Engine
	writer *report.Writer
	logger *logger.Logger

	symbols  []string
	daysBack int
	config   simulation.Config
	initial  float64
	schedule string
}

// NewRiskReportJob creates the job. schedule is a six-field cron
// expression, e.g. "0 0 7 * * *" for every day at 07:00.
func NewRiskReportJob(
	client *binance.Client,
	eng *engine.Engine,
	writer *report.Writer,
	log *logger.Logger,
	symbols []string,
	daysBack int,
	cfg simulation.Config,
	initial float64,
	schedule string,
) *RiskReportJob {
	return &RiskReportJob{
		client:   client,
		engine:   eng,
		writer:   writer,
		logger:   log,
		symbols:  symbols,
		daysBack: daysBack,
		config:   cfg,
		initial:  initial,
		schedule: schedule,
	}
}

// Name identifies the job.
func (j *RiskReportJob) Name() string { return "risk-report" }

// Schedule returns the cron expression.
func (j *RiskReportJob) Schedule() string { return j.schedule }

// Run fetches prices, refits statistics, and writes the report.
func (j *RiskReportJob) Run(ctx context.Context) error {
	prices, err := j.client.LoadPriceSet(ctx, j.symbols, j.daysBack)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	returns, err := statistics.LogReturns(prices.Prices)
	if err != nil {
		return err
	}
	stats, err := statistics.EstimateStatistics(returns)
	if err != nil {
		return err
	}

	result, err := j.engine.Run(engine.Request{
		Stats:        stats,
		Config:       j.config,
		InitialValue: j.initial,
	})
	if err != nil {
		return err
	}

	if _, err := j.writer.Save(result, j.symbols, j.initial); err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"symbols": j.symbols,
		"run_id":  result.Report.RunID,
	}).Info("Scheduled risk report generated")
	return nil
}
