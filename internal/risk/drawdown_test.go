package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/portfolio"
)

func valuePath(t *testing.T, rows [][]float64) *portfolio.ValuePath {
	t.Helper()
	vp, err := portfolio.NewValuePath(rows)
	require.NoError(t, err)
	return vp
}

func TestWorstDrawdowns(t *testing.T) {
	tests := []struct {
		name string
		path []float64
		want float64
	}{
		{
			// Peak 120, trough 90.
			name: "drop after peak",
			path: []float64{100, 120, 90, 95, 130, 110},
			want: -0.25,
		},
		{
			name: "monotone rise",
			path: []float64{100, 101, 105, 110},
			want: 0,
		},
		{
			name: "monotone fall",
			path: []float64{100, 80, 50},
			want: -0.5,
		},
		{
			// The later, deeper drop from the higher peak wins.
			name: "two troughs",
			path: []float64{100, 90, 110, 77},
			want: -0.3,
		},
		{
			name: "single day",
			path: []float64{42},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorstDrawdowns(valuePath(t, [][]float64{tt.path}))
			require.Len(t, got, 1)
			assert.InDelta(t, tt.want, got[0], 1e-12)
		})
	}
}

func TestWorstDrawdownsPerPath(t *testing.T) {
	vp := valuePath(t, [][]float64{
		{100, 50, 100},
		{100, 100, 100},
		{100, 200, 100},
	})

	got := WorstDrawdowns(vp)
	require.Len(t, got, 3)
	assert.InDelta(t, -0.5, got[0], 1e-12)
	assert.Zero(t, got[1])
	assert.InDelta(t, -0.5, got[2], 1e-12)
}
