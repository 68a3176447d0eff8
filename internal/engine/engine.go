// Package engine chains the simulation pipeline: return statistics in,
// simulated paths, value trajectories, terminal P&L, and a risk report out.
package engine

import (
	"fmt"
	"time"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/portfolio"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/risk"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/simulation"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/logger"
)

// Engine runs the pipeline. Each Run call owns its inputs and outputs
// exclusively; nothing is cached or shared between invocations.
type Engine struct {
	simulator *simulation.Simulator
	logger    *logger.Logger
}

// New creates an Engine. A nil logger falls back to a no-op logger.
func New(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		simulator: simulation.NewSimulator(),
		logger:    log,
	}
}

// Request carries one pipeline invocation's value parameters.
type Request struct {
	Stats  *simulation.ReturnStatistics
	Config simulation.Config

	// Weights defaults to equal weights when empty.
	Weights []float64
	// InitialValue defaults to 1.0 when zero.
	InitialValue float64

	// Confidences and DrawdownPercentiles default to the risk package
	// defaults when empty.
	Confidences         []float64
	DrawdownPercentiles []float64
}

// Result bundles every stage's output. The caller owns all of it.
type Result struct {
	Paths       *simulation.Paths
	Values      *portfolio.ValuePath
	TerminalPnL []float64
	Report      *risk.Report
}

// Run executes simulate -> aggregate -> summarize.
func (e *Engine) Run(req Request) (*Result, error) {
	if req.Stats == nil {
		return nil, fmt.Errorf("%w: nil return statistics", contracts.ErrInvalidInput)
	}

	weights := req.Weights
	if len(weights) == 0 {
		n := req.Stats.NumAssets()
		weights = make([]float64, n)
		for i := range weights {
			weights[i] = 1 / float64(n)
		}
	}
	initial := req.InitialValue
	if initial == 0 {
		initial = 1.0
	}

	start := time.Now()
	paths, err := e.simulator.Simulate(req.Stats, req.Config)
	if err != nil {
		return nil, err
	}
	e.logger.WithFields(map[string]interface{}{
		"paths":    req.Config.NumPaths,
		"horizon":  req.Config.HorizonDays,
		"assets":   req.Stats.NumAssets(),
		"duration": time.Since(start),
	}).Debug("Simulation finished")

	values, pnl, err := portfolio.Aggregate(paths, weights, initial)
	if err != nil {
		return nil, err
	}

	report, err := risk.Summarize(pnl, values, req.Confidences, req.DrawdownPercentiles)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"run_id":   report.RunID,
		"duration": time.Since(start),
	}).Info("Risk pipeline finished")

	return &Result{
		Paths:       paths,
		Values:      values,
		TerminalPnL: pnl,
		Report:      report,
	}, nil
}
