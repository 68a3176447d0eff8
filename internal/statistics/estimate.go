// Package statistics fits per-period return statistics from historical
// close prices: log returns, a mean vector, and a sample covariance matrix
// ready for simulation.
package statistics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/simulation"
)

// LogReturns converts a price matrix (rows are observations in time order,
// columns are assets) to per-period log returns, dropping the first row.
// Every price must be a positive finite number.
func LogReturns(prices *mat.Dense) (*mat.Dense, error) {
	rows, cols := prices.Dims()
	if rows < 2 {
		return nil, fmt.Errorf("%w: need at least 2 price observations, got %d", contracts.ErrInvalidInput, rows)
	}
	if cols < 1 {
		return nil, fmt.Errorf("%w: price matrix has no assets", contracts.ErrInvalidInput)
	}

	returns := mat.NewDense(rows-1, cols, nil)
	for i := 1; i < rows; i++ {
		for j := 0; j < cols; j++ {
			prev, cur := prices.At(i-1, j), prices.At(i, j)
			if prev <= 0 || cur <= 0 || math.IsNaN(prev) || math.IsNaN(cur) || math.IsInf(prev, 0) || math.IsInf(cur, 0) {
				return nil, fmt.Errorf("%w: non-positive or non-finite price at row %d, asset %d", contracts.ErrInvalidInput, i, j)
			}
			returns.Set(i-1, j, math.Log(cur/prev))
		}
	}
	return returns, nil
}

// Estimate computes the column means and the sample covariance matrix of a
// return matrix. At least two observations are required for the covariance
// to be defined.
func Estimate(returns *mat.Dense) ([]float64, [][]float64, error) {
	rows, cols := returns.Dims()
	if rows < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 return observations, got %d", contracts.ErrInvalidInput, rows)
	}

	mean := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, returns)
		mean[j] = stat.Mean(col, nil)
	}

	var sym mat.SymDense
	stat.CovarianceMatrix(&sym, returns, nil)

	cov := make([][]float64, cols)
	for i := range cov {
		cov[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			cov[i][j] = sym.At(i, j)
		}
	}
	return mean, cov, nil
}

// EstimateStatistics fits mean and covariance from a return matrix and
// validates them into simulation-ready ReturnStatistics.
func EstimateStatistics(returns *mat.Dense, opts ...simulation.Option) (*simulation.ReturnStatistics, error) {
	mean, cov, err := Estimate(returns)
	if err != nil {
		return nil, err
	}
	return simulation.NewReturnStatistics(mean, cov, opts...)
}
