package simulation

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
)

// Simulator produces correlated multi-asset return paths from validated
// return statistics.
//
// Generator contract: the draw for (path p, day d, asset a) comes from a
// distuv.Normal(0,1) backed by a golang.org/x/exp/rand PCG source seeded
// with pathSeed(seed, p), consumed day-major then asset-minor within the
// path. Because every path owns its own source, output is bit-identical for
// a given seed regardless of how many workers run.
type Simulator struct {
	// Workers bounds the number of goroutines filling the tensor.
	// Zero means runtime.NumCPU().
	Workers int
}

// NewSimulator returns a Simulator with default parallelism.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Simulate draws cfg.NumPaths scenarios of cfg.HorizonDays daily log
// returns for stats.NumAssets assets. The random state is local to the
// call; two calls with the same stats and config (non-zero seed) return
// identical tensors.
func (s *Simulator) Simulate(stats *ReturnStatistics, cfg Config) (*Paths, error) {
	if stats == nil {
		return nil, fmt.Errorf("%w: nil return statistics", contracts.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	n := stats.NumAssets()
	out := newPaths(cfg.NumPaths, cfg.HorizonDays, n)

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.NumPaths {
		workers = cfg.NumPaths
	}

	chunk := (cfg.NumPaths + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < cfg.NumPaths; start += chunk {
		end := start + chunk
		if end > cfg.NumPaths {
			end = cfg.NumPaths
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			z := make([]float64, n)
			for p := start; p < end; p++ {
				normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(pathSeed(seed, p))}
				for d := 0; d < cfg.HorizonDays; d++ {
					for a := 0; a < n; a++ {
						z[a] = normal.Rand()
					}
					stats.transform(z, out.row(p, d))
				}
			}
		}(start, end)
	}
	wg.Wait()

	return out, nil
}

// pathSeed derives the per-path generator seed from the base seed with a
// SplitMix64 step, so the stream partitions deterministically across paths.
func pathSeed(seed uint64, path int) uint64 {
	x := seed + (uint64(path)+1)*0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
