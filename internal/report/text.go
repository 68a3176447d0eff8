// Package report renders simulation results for humans: a plain-text
// summary and PNG charts. Nothing in here feeds back into the pipeline.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/risk"
)

// WriteSummary writes a text summary of a risk report.
func WriteSummary(w io.Writer, symbols []string, rep *risk.Report) error {
	var b strings.Builder

	b.WriteString("=== Monte Carlo Risk Engine ===\n")
	if len(symbols) > 0 {
		fmt.Fprintf(&b, "Assets:   %s\n", strings.Join(symbols, ", "))
	}
	fmt.Fprintf(&b, "Run:      %s\n", rep.RunID)
	fmt.Fprintf(&b, "Paths:    %d | Horizon: %d days\n", rep.NumPaths, rep.HorizonDays)
	b.WriteString("\n")

	for _, tr := range rep.TailRisks {
		pct := tr.Confidence * 100
		fmt.Fprintf(&b, "VaR %.0f%%:  %.4f\n", pct, tr.VaR)
		fmt.Fprintf(&b, "CVaR %.0f%%: %.4f\n", pct, tr.CVaR)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Mean P&L:     %+.4f\n", rep.MeanPnL)
	fmt.Fprintf(&b, "Std Dev P&L:  %.4f\n", rep.StdDevPnL)
	fmt.Fprintf(&b, "Prob(Loss):   %.2f%%\n", rep.ProbLoss*100)
	fmt.Fprintf(&b, "Best Case:    %+.4f\n", rep.BestCase)
	fmt.Fprintf(&b, "Worst Case:   %+.4f\n", rep.WorstCase)

	if len(rep.Drawdowns) > 0 {
		b.WriteString("\n")
		for _, dd := range rep.Drawdowns {
			fmt.Fprintf(&b, "Drawdown p%.0f: %.2f%%\n", dd.Percentile, dd.Drawdown*100)
		}
	}
	b.WriteString("===============================\n")

	_, err := io.WriteString(w, b.String())
	return err
}
