package risk

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/portfolio"
)

// Summarize builds the full tail-risk report of one simulation run.
// confidences defaults to DefaultConfidences when empty. values may be nil,
// in which case no drawdown statistics are reported; ddPercentiles defaults
// to DefaultDrawdownPercentiles when empty.
func Summarize(pnl []float64, values *portfolio.ValuePath, confidences, ddPercentiles []float64) (*Report, error) {
	if len(pnl) == 0 {
		return nil, fmt.Errorf("%w: empty pnl vector", contracts.ErrInvalidInput)
	}
	if len(confidences) == 0 {
		confidences = DefaultConfidences
	}
	if len(ddPercentiles) == 0 {
		ddPercentiles = DefaultDrawdownPercentiles
	}

	report := &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
		NumPaths:    len(pnl),
	}

	for _, alpha := range confidences {
		v, cv, err := VarCvar(pnl, alpha)
		if err != nil {
			return nil, err
		}
		report.TailRisks = append(report.TailRisks, TailRisk{Confidence: alpha, VaR: v, CVaR: cv})
	}

	report.MeanPnL = stat.Mean(pnl, nil)
	if len(pnl) > 1 {
		report.StdDevPnL = stat.StdDev(pnl, nil)
	}

	best, worst := pnl[0], pnl[0]
	lossCount := 0
	for _, v := range pnl {
		if v > best {
			best = v
		}
		if v < worst {
			worst = v
		}
		if v < 0 {
			lossCount++
		}
	}
	report.BestCase = best
	report.WorstCase = worst
	report.ProbLoss = float64(lossCount) / float64(len(pnl))

	if values != nil {
		report.HorizonDays = values.HorizonDays()
		worstDD := WorstDrawdowns(values)
		sort.Float64s(worstDD)
		for _, pct := range ddPercentiles {
			if pct < 0 || pct > 100 {
				return nil, fmt.Errorf("%w: drawdown percentile must be in [0,100], got %v", contracts.ErrInvalidInput, pct)
			}
			report.Drawdowns = append(report.Drawdowns, DrawdownQuantile{
				Percentile: pct,
				Drawdown:   quantile(worstDD, pct/100),
			})
		}
	}

	return report, nil
}
