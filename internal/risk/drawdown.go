package risk

import (
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/portfolio"
)

// WorstDrawdowns computes every scenario's worst drawdown. The drawdown at
// day t is (value - runningMax) / runningMax relative to the running peak
// up to t, so each entry is <= 0; the worst drawdown is the minimum over
// days.
func WorstDrawdowns(values *portfolio.ValuePath) []float64 {
	out := make([]float64, values.NumPaths())
	for p := 0; p < values.NumPaths(); p++ {
		path := values.Path(p)
		peak := path[0]
		worst := 0.0
		for _, v := range path {
			if v > peak {
				peak = v
			}
			dd := (v - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
		out[p] = worst
	}
	return out
}
