package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/engine"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/risk"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/logger"
)

// histogramBins is the bin count for the P&L and drawdown histograms.
const histogramBins = 60

// Writer persists a pipeline result as report files in a directory.
type Writer struct {
	dir    string
	logger *logger.Logger
}

// NewWriter creates a Writer. A nil logger falls back to a no-op logger.
func NewWriter(dir string, log *logger.Logger) *Writer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Writer{dir: dir, logger: log}
}

// Save writes the text summary and all charts for one result, returning
// the written file paths.
func (w *Writer) Save(result *engine.Result, symbols []string, initialValue float64) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	var written []string

	var summary bytes.Buffer
	if err := WriteSummary(&summary, symbols, result.Report); err != nil {
		return nil, err
	}
	path := filepath.Join(w.dir, "summary.txt")
	if err := os.WriteFile(path, summary.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	written = append(written, path)

	fan, err := ValueFanChart(result.Values, initialValue)
	if err != nil {
		return nil, err
	}
	path = filepath.Join(w.dir, "value_fan.png")
	if err := os.WriteFile(path, fan, 0o644); err != nil {
		return nil, fmt.Errorf("write fan chart: %w", err)
	}
	written = append(written, path)

	hist, err := PnLHistogram(result.TerminalPnL, histogramBins)
	if err != nil {
		return nil, err
	}
	path = filepath.Join(w.dir, "pnl_distribution.png")
	if err := os.WriteFile(path, hist, 0o644); err != nil {
		return nil, fmt.Errorf("write pnl histogram: %w", err)
	}
	written = append(written, path)

	dd, err := DrawdownHistogram(risk.WorstDrawdowns(result.Values), histogramBins)
	if err != nil {
		return nil, err
	}
	path = filepath.Join(w.dir, "drawdowns.png")
	if err := os.WriteFile(path, dd, 0o644); err != nil {
		return nil, fmt.Errorf("write drawdown histogram: %w", err)
	}
	written = append(written, path)

	w.logger.WithFields(map[string]interface{}{
		"dir":   w.dir,
		"files": len(written),
	}).Info("Report written")
	return written, nil
}
