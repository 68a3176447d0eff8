package portfolio_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/portfolio"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/simulation"
)

func simulatePaths(t *testing.T, numPaths, horizon int) *simulation.Paths {
	t.Helper()
	stats, err := simulation.NewReturnStatistics(
		[]float64{0.001, -0.002},
		[][]float64{{0.04, 0.01}, {0.01, 0.09}},
	)
	require.NoError(t, err)

	paths, err := simulation.NewSimulator().Simulate(stats, simulation.Config{
		HorizonDays: horizon,
		NumPaths:    numPaths,
		Seed:        42,
	})
	require.NoError(t, err)
	return paths
}

func TestAggregateSingleAssetCompounding(t *testing.T) {
	paths := simulatePaths(t, 20, 6)

	// A one-hot weight vector reduces the portfolio to compounding a
	// single asset's log returns.
	for asset := 0; asset < 2; asset++ {
		weights := []float64{0, 0}
		weights[asset] = 1

		values, terminal, err := portfolio.Aggregate(paths, weights, 100)
		require.NoError(t, err)

		for p := 0; p < paths.NumPaths(); p++ {
			want := 100.0
			for d := 0; d < paths.HorizonDays(); d++ {
				want *= math.Exp(paths.At(p, d, asset))
				assert.InDelta(t, want, values.At(p, d), 1e-9)
			}
			assert.InDelta(t, want-100, terminal[p], 1e-9)
		}
	}
}

func TestAggregateTerminalPnL(t *testing.T) {
	paths := simulatePaths(t, 10, 5)

	values, terminal, err := portfolio.Aggregate(paths, []float64{0.6, 0.4}, 1)
	require.NoError(t, err)
	require.Len(t, terminal, 10)

	for p := 0; p < 10; p++ {
		last := values.At(p, values.HorizonDays()-1)
		assert.InDelta(t, last-1, terminal[p], 1e-12)
		for d := 0; d < values.HorizonDays(); d++ {
			assert.Greater(t, values.At(p, d), 0.0)
		}
	}
}

func TestAggregateZeroWeights(t *testing.T) {
	paths := simulatePaths(t, 4, 3)

	values, terminal, err := portfolio.Aggregate(paths, []float64{0, 0}, 50)
	require.NoError(t, err)

	for p := 0; p < 4; p++ {
		assert.Zero(t, terminal[p])
		for d := 0; d < 3; d++ {
			assert.Equal(t, 50.0, values.At(p, d))
		}
	}
}

func TestAggregateErrors(t *testing.T) {
	paths := simulatePaths(t, 2, 2)

	tests := []struct {
		name    string
		paths   *simulation.Paths
		weights []float64
		initial float64
		want    error
	}{
		{"nil paths", nil, []float64{1, 0}, 1, contracts.ErrInvalidInput},
		{"too few weights", paths, []float64{1}, 1, contracts.ErrDimensionMismatch},
		{"too many weights", paths, []float64{1, 0, 0}, 1, contracts.ErrDimensionMismatch},
		{"nan weight", paths, []float64{math.NaN(), 1}, 1, contracts.ErrInvalidInput},
		{"inf weight", paths, []float64{math.Inf(1), 0}, 1, contracts.ErrInvalidInput},
		{"zero initial", paths, []float64{1, 0}, 0, contracts.ErrInvalidInput},
		{"negative initial", paths, []float64{1, 0}, -10, contracts.ErrInvalidInput},
		{"nan initial", paths, []float64{1, 0}, math.NaN(), contracts.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := portfolio.Aggregate(tt.paths, tt.weights, tt.initial)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewValuePath(t *testing.T) {
	vp, err := portfolio.NewValuePath([][]float64{{100, 110, 99}, {100, 90, 120}})
	require.NoError(t, err)
	assert.Equal(t, 2, vp.NumPaths())
	assert.Equal(t, 3, vp.HorizonDays())
	assert.Equal(t, 110.0, vp.At(0, 1))
	assert.Equal(t, []float64{100, 90, 120}, vp.Path(1))

	tests := []struct {
		name string
		rows [][]float64
		want error
	}{
		{"empty", nil, contracts.ErrInvalidInput},
		{"empty row", [][]float64{{}}, contracts.ErrInvalidInput},
		{"ragged", [][]float64{{1, 2}, {1}}, contracts.ErrDimensionMismatch},
		{"non-positive", [][]float64{{1, 0}}, contracts.ErrInvalidInput},
		{"nan", [][]float64{{1, math.NaN()}}, contracts.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := portfolio.NewValuePath(tt.rows)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
