package simulation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
)

// symmetryTol is the relative tolerance used when checking that a covariance
// matrix is symmetric.
const symmetryTol = 1e-9

// ReturnStatistics holds the per-period return distribution of a set of
// assets: a mean vector and a covariance matrix. It is validated at
// construction and immutable afterwards; the Cholesky factor of the
// covariance is computed once and reused by every simulation call.
type ReturnStatistics struct {
	mean  []float64
	cov   []float64 // row-major copy, kept for read access
	lower []float64 // row-major lower-triangular Cholesky factor
	dim   int
}

// Option configures optional construction behavior of ReturnStatistics.
type Option func(*statsOptions)

type statsOptions struct {
	regularization float64
}

// WithRegularization adds eps to every diagonal element of the covariance
// before factorization. This is an explicit escape hatch for near-singular
// matrices; nothing is ever regularized implicitly.
func WithRegularization(eps float64) Option {
	return func(o *statsOptions) {
		o.regularization = eps
	}
}

// NewReturnStatistics validates mean and covariance and factors the
// covariance. The covariance must be square with the same dimension as mean,
// symmetric within tolerance, and strictly positive definite. A covariance
// that fails Cholesky factorization (including an all-zero matrix) is
// rejected with a numerical error.
func NewReturnStatistics(mean []float64, cov [][]float64, opts ...Option) (*ReturnStatistics, error) {
	var o statsOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.regularization < 0 {
		return nil, fmt.Errorf("%w: regularization must be >= 0, got %v", contracts.ErrInvalidInput, o.regularization)
	}

	n := len(mean)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty mean vector", contracts.ErrInvalidInput)
	}
	if len(cov) != n {
		return nil, fmt.Errorf("%w: mean has %d assets, covariance has %d rows", contracts.ErrDimensionMismatch, n, len(cov))
	}
	for i, row := range cov {
		if len(row) != n {
			return nil, fmt.Errorf("%w: covariance row %d has %d columns, want %d", contracts.ErrDimensionMismatch, i, len(row), n)
		}
	}

	for i, m := range mean {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, fmt.Errorf("%w: mean[%d] is not finite", contracts.ErrInvalidInput, i)
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := cov[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: covariance[%d][%d] is not finite", contracts.ErrInvalidInput, i, j)
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := cov[i][j], cov[j][i]
			scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
			if math.Abs(a-b) > symmetryTol*scale {
				return nil, fmt.Errorf("%w: covariance not symmetric at (%d,%d): %v vs %v", contracts.ErrInvalidInput, i, j, a, b)
			}
		}
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := cov[i][j]
			if i == j {
				v += o.regularization
			}
			sym.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("%w: covariance is not positive definite", contracts.ErrNumerical)
	}
	var tri mat.TriDense
	chol.LTo(&tri)

	rs := &ReturnStatistics{
		mean:  make([]float64, n),
		cov:   make([]float64, n*n),
		lower: make([]float64, n*n),
		dim:   n,
	}
	copy(rs.mean, mean)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rs.cov[i*n+j] = cov[i][j]
			if j <= i {
				rs.lower[i*n+j] = tri.At(i, j)
			}
		}
	}
	return rs, nil
}

// NumAssets returns the number of assets the statistics describe.
func (rs *ReturnStatistics) NumAssets() int { return rs.dim }

// Mean returns a copy of the mean vector.
func (rs *ReturnStatistics) Mean() []float64 {
	out := make([]float64, rs.dim)
	copy(out, rs.mean)
	return out
}

// Covariance returns a copy of the covariance matrix.
func (rs *ReturnStatistics) Covariance() [][]float64 {
	out := make([][]float64, rs.dim)
	for i := range out {
		out[i] = make([]float64, rs.dim)
		copy(out[i], rs.cov[i*rs.dim:(i+1)*rs.dim])
	}
	return out
}

// transform maps a vector of independent standard-normal draws to a
// correlated return vector: dst = L*z + mean. dst and z must both have
// length NumAssets.
func (rs *ReturnStatistics) transform(z, dst []float64) {
	n := rs.dim
	for i := 0; i < n; i++ {
		sum := rs.mean[i]
		row := rs.lower[i*n : i*n+i+1]
		for j, l := range row {
			sum += l * z[j]
		}
		dst[i] = sum
	}
}
