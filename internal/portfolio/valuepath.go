package portfolio

import (
	"fmt"
	"math"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
)

// ValuePath holds the compounded portfolio value trajectory of every
// simulated scenario as a [paths x days] matrix. Entries are strictly
// positive for finite inputs. Derived once per Aggregate call, immutable
// afterwards.
type ValuePath struct {
	numPaths    int
	horizonDays int
	data        []float64
}

func newValuePath(numPaths, horizonDays int) *ValuePath {
	return &ValuePath{
		numPaths:    numPaths,
		horizonDays: horizonDays,
		data:        make([]float64, numPaths*horizonDays),
	}
}

// NewValuePath builds a ValuePath from externally computed trajectories,
// one row per scenario. Rows must be non-empty, equal length, and strictly
// positive.
func NewValuePath(rows [][]float64) (*ValuePath, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty value trajectories", contracts.ErrInvalidInput)
	}
	horizon := len(rows[0])
	v := newValuePath(len(rows), horizon)
	for p, row := range rows {
		if len(row) != horizon {
			return nil, fmt.Errorf("%w: row %d has %d days, want %d", contracts.ErrDimensionMismatch, p, len(row), horizon)
		}
		for d, val := range row {
			if val <= 0 || math.IsNaN(val) || math.IsInf(val, 0) {
				return nil, fmt.Errorf("%w: value at (%d,%d) must be a positive finite number", contracts.ErrInvalidInput, p, d)
			}
		}
		copy(v.row(p), row)
	}
	return v, nil
}

// NumPaths returns the number of scenarios.
func (v *ValuePath) NumPaths() int { return v.numPaths }

// HorizonDays returns the number of days per scenario.
func (v *ValuePath) HorizonDays() int { return v.horizonDays }

// At returns the portfolio value of one (path, day).
func (v *ValuePath) At(path, day int) float64 {
	return v.data[path*v.horizonDays+day]
}

// Path returns one scenario's value trajectory. The slice aliases internal
// storage; callers must treat it as read-only.
func (v *ValuePath) Path(path int) []float64 {
	start := path * v.horizonDays
	return v.data[start : start+v.horizonDays]
}

func (v *ValuePath) row(path int) []float64 {
	start := path * v.horizonDays
	return v.data[start : start+v.horizonDays]
}
