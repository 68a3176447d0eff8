package risk

import "time"

// TailRisk holds VaR and CVaR at one confidence level. Both are losses
// expressed as positive numbers.
type TailRisk struct {
	Confidence float64 `json:"confidence"`
	VaR        float64 `json:"var"`
	CVaR       float64 `json:"cvar"`
}

// DrawdownQuantile is one percentile of the worst-drawdown distribution
// across scenarios. Drawdown is <= 0.
type DrawdownQuantile struct {
	Percentile float64 `json:"percentile"`
	Drawdown   float64 `json:"drawdown"`
}

// Report is the tail-risk summary of one simulation run. It is a pure
// function of the terminal P&L and value paths it was computed from.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	NumPaths    int `json:"n_paths"`
	HorizonDays int `json:"horizon_days,omitempty"`

	TailRisks []TailRisk `json:"tail_risks"`

	MeanPnL   float64 `json:"mean_pnl"`
	StdDevPnL float64 `json:"stddev_pnl"`
	ProbLoss  float64 `json:"prob_loss"`
	BestCase  float64 `json:"best_case"`
	WorstCase float64 `json:"worst_case"`

	Drawdowns []DrawdownQuantile `json:"drawdowns,omitempty"`
}

// DefaultConfidences are the confidence levels reported when the caller
// does not ask for specific ones.
var DefaultConfidences = []float64{0.95, 0.99}

// DefaultDrawdownPercentiles are the reported percentiles of the
// worst-drawdown distribution: the bad tail and the typical case.
var DefaultDrawdownPercentiles = []float64{5, 50}
