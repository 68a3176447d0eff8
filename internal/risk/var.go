// Package risk summarizes the downside tail of a simulated P&L
// distribution: Value-at-Risk, Conditional VaR, and drawdown statistics.
// Everything here is a pure function of its inputs.
package risk

import (
	"fmt"
	"sort"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
)

// VarCvar computes Value-at-Risk and Conditional VaR of a P&L distribution
// at confidence alpha in (0,1). Losses are the negated P&L, so both values
// are positive when the tail loses money.
//
// VaR is the alpha-quantile of the empirical loss distribution using linear
// interpolation between order statistics. CVaR is the mean of all losses at
// or beyond the VaR threshold; ties at the threshold can pull more than the
// nominal 1-alpha mass into the tail, which is accepted as an approximation
// of expected shortfall. A degenerate distribution gives cvar = var.
func VarCvar(pnl []float64, alpha float64) (float64, float64, error) {
	if len(pnl) == 0 {
		return 0, 0, fmt.Errorf("%w: empty pnl vector", contracts.ErrInvalidInput)
	}
	if alpha <= 0 || alpha >= 1 {
		return 0, 0, fmt.Errorf("%w: alpha must be in (0,1), got %v", contracts.ErrInvalidInput, alpha)
	}

	losses := make([]float64, len(pnl))
	for i, v := range pnl {
		losses[i] = -v
	}
	sort.Float64s(losses)

	varValue := quantile(losses, alpha)

	var sum float64
	var count int
	for i := len(losses) - 1; i >= 0; i-- {
		if losses[i] < varValue {
			break
		}
		sum += losses[i]
		count++
	}
	cvar := varValue
	if count > 0 {
		cvar = sum / float64(count)
	}

	return varValue, cvar, nil
}

// quantile interpolates linearly between order statistics at rank
// (n-1) * p. sorted must be ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := p * float64(len(sorted)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
