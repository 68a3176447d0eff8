package simulation

// Paths holds simulated per-asset log returns as a [paths x days x assets]
// tensor. Paths and days are i.i.d.; only assets within a day are
// correlated. The tensor is produced once per Simulate call and is not
// mutated afterwards.
type Paths struct {
	numPaths    int
	horizonDays int
	numAssets   int
	data        []float64
}

func newPaths(numPaths, horizonDays, numAssets int) *Paths {
	return &Paths{
		numPaths:    numPaths,
		horizonDays: horizonDays,
		numAssets:   numAssets,
		data:        make([]float64, numPaths*horizonDays*numAssets),
	}
}

// NumPaths returns the number of simulated scenarios.
func (p *Paths) NumPaths() int { return p.numPaths }

// HorizonDays returns the number of simulated days per scenario.
func (p *Paths) HorizonDays() int { return p.horizonDays }

// NumAssets returns the number of assets per day.
func (p *Paths) NumAssets() int { return p.numAssets }

// At returns the log return of one (path, day, asset) cell.
func (p *Paths) At(path, day, asset int) float64 {
	return p.data[(path*p.horizonDays+day)*p.numAssets+asset]
}

// Day returns the per-asset log returns of one (path, day). The slice
// aliases internal storage; callers must treat it as read-only.
func (p *Paths) Day(path, day int) []float64 {
	start := (path*p.horizonDays + day) * p.numAssets
	return p.data[start : start+p.numAssets]
}

// row is the mutable view used while filling the tensor.
func (p *Paths) row(path, day int) []float64 {
	start := (path*p.horizonDays + day) * p.numAssets
	return p.data[start : start+p.numAssets]
}
