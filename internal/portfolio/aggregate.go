// Package portfolio turns simulated per-asset return paths into portfolio
// value trajectories and terminal profit/loss.
package portfolio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/simulation"
)

// Aggregate compounds simulated per-asset log returns into a portfolio
// value trajectory per path and the terminal P&L per path.
//
// The portfolio log return of a day is the dot product of that day's asset
// log returns with weights. Weighting log returns approximates weighting
// portfolio value and is accurate only for small per-period returns; it is
// kept deliberately, matching the model this engine implements. Each day's
// log return is exponentiated and cumulative-multiplied in day order,
// scaled by initialValue. Terminal P&L is the last day's value minus
// initialValue.
func Aggregate(paths *simulation.Paths, weights []float64, initialValue float64) (*ValuePath, []float64, error) {
	if paths == nil {
		return nil, nil, fmt.Errorf("%w: nil paths", contracts.ErrInvalidInput)
	}
	if len(weights) != paths.NumAssets() {
		return nil, nil, fmt.Errorf("%w: %d weights for %d assets", contracts.ErrDimensionMismatch, len(weights), paths.NumAssets())
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, nil, fmt.Errorf("%w: weight[%d] is not finite", contracts.ErrInvalidInput, i)
		}
	}
	if initialValue <= 0 || math.IsNaN(initialValue) || math.IsInf(initialValue, 0) {
		return nil, nil, fmt.Errorf("%w: initial value must be a positive finite number, got %v", contracts.ErrInvalidInput, initialValue)
	}

	numPaths := paths.NumPaths()
	horizon := paths.HorizonDays()

	values := newValuePath(numPaths, horizon)
	terminal := make([]float64, numPaths)

	for p := 0; p < numPaths; p++ {
		row := values.row(p)
		value := initialValue
		for d := 0; d < horizon; d++ {
			logRet := floats.Dot(paths.Day(p, d), weights)
			value *= math.Exp(logRet)
			row[d] = value
		}
		terminal[p] = value - initialValue
	}

	return values, terminal, nil
}
