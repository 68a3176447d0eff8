package report

import (
	"fmt"
	"math"
	"sort"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/portfolio"
)

// fanPercentiles are the value-path percentile bands rendered in the fan
// chart, best to worst.
var fanPercentiles = []float64{95, 75, 50, 25, 5}

// ValueFanChart renders the percentile bands of the simulated portfolio
// value trajectories as a PNG line chart.
func ValueFanChart(values *portfolio.ValuePath, initialValue float64) ([]byte, error) {
	horizon := values.HorizonDays()
	numPaths := values.NumPaths()

	series := make([][]float64, len(fanPercentiles))
	for i := range series {
		series[i] = make([]float64, horizon)
	}

	col := make([]float64, numPaths)
	for d := 0; d < horizon; d++ {
		for p := 0; p < numPaths; p++ {
			col[p] = values.At(p, d)
		}
		sort.Float64s(col)
		for i, pct := range fanPercentiles {
			series[i][d] = percentile(col, pct)
		}
	}

	labels := make([]string, horizon)
	for d := range labels {
		labels[d] = fmt.Sprintf("Day %d", d+1)
	}
	names := make([]string, len(fanPercentiles))
	for i, pct := range fanPercentiles {
		names[i] = fmt.Sprintf("p%.0f", pct)
	}

	title := fmt.Sprintf("Portfolio Value Scenarios (%d paths, start %.2f)", numPaths, initialValue)
	p, err := charts.LineRender(
		series,
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: splitNumber(horizon),
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("render fan chart: %w", err)
	}
	return p.Bytes()
}

// PnLHistogram renders the terminal P&L distribution as a PNG bar chart.
func PnLHistogram(pnl []float64, bins int) ([]byte, error) {
	counts, labels, err := histogram(pnl, bins, "%+.3f")
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Terminal P&L Distribution (%d paths)", len(pnl))
	return renderBars(counts, labels, title)
}

// DrawdownHistogram renders the worst-drawdown distribution (in percent)
// as a PNG bar chart.
func DrawdownHistogram(worstDrawdowns []float64, bins int) ([]byte, error) {
	pct := make([]float64, len(worstDrawdowns))
	for i, dd := range worstDrawdowns {
		pct[i] = dd * 100
	}
	counts, labels, err := histogram(pct, bins, "%.1f%%")
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Maximum Drawdown Distribution (%d paths)", len(worstDrawdowns))
	return renderBars(counts, labels, title)
}

func renderBars(counts []float64, labels []string, title string) ([]byte, error) {
	p, err := charts.BarRender(
		[][]float64{counts},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: splitNumber(len(labels)),
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("render histogram: %w", err)
	}
	return p.Bytes()
}

// histogram buckets values into equal-width bins; labels carry each bin's
// midpoint.
func histogram(values []float64, bins int, labelFormat string) ([]float64, []string, error) {
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("no values to bucket")
	}
	if bins < 1 {
		bins = 40
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}

	counts := make([]float64, bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	labels := make([]string, bins)
	for i := range labels {
		mid := lo + (float64(i)+0.5)*width
		labels[i] = fmt.Sprintf(labelFormat, mid)
	}
	return counts, labels, nil
}

// percentile interpolates linearly over a sorted slice, pct in [0,100].
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 1 || pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := pct / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func splitNumber(n int) int {
	split := 6
	if n <= 30 {
		split = n / 3
		if split < 3 {
			split = 3
		}
	}
	return split
}
