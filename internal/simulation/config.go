package simulation

import (
	"fmt"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/internal/contracts"
)

// Config holds the simulation parameters.
type Config struct {
	// HorizonDays is the number of trading days to simulate. Must be >= 1.
	HorizonDays int
	// NumPaths is the number of independent scenarios. Must be >= 1.
	NumPaths int
	// Seed seeds the pseudorandom stream. A zero seed selects a time-based
	// seed and gives up reproducibility.
	Seed uint64
}

// Validate checks the parameter ranges.
func (c Config) Validate() error {
	if c.HorizonDays < 1 {
		return fmt.Errorf("%w: horizon days must be >= 1, got %d", contracts.ErrInvalidConfig, c.HorizonDays)
	}
	if c.NumPaths < 1 {
		return fmt.Errorf("%w: number of paths must be >= 1, got %d", contracts.ErrInvalidConfig, c.NumPaths)
	}
	return nil
}
