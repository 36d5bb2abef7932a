package tiles

import "fmt"

// Config holds TilesState's boot-learning and bucketing parameters.
type Config struct {
	// BootCyclesForMedian is how many cycle dt_us samples are collected
	// before the tile duration is learned from their median.
	BootCyclesForMedian int
	// TileSpanCycles scales the learned median dt into a tile duration:
	// tile_duration_us = TileSpanCycles * median(dt_samples).
	TileSpanCycles float64
	// Emission selects dense vs sparse-jump handling of skipped tile
	// indices (§9 Open Question 1).
	Emission EmissionMode
}

// DefaultConfig returns production-tuned boot/bucketing parameters.
func DefaultConfig() Config {
	return Config{
		BootCyclesForMedian: 12,
		TileSpanCycles:      4.0,
		Emission:            EmissionDense,
	}
}

// Validate checks the configuration is internally consistent.
func (c Config) Validate() error {
	if c.BootCyclesForMedian <= 0 {
		return fmt.Errorf("tiles: BootCyclesForMedian must be positive")
	}
	if c.TileSpanCycles <= 0 {
		return fmt.Errorf("tiles: TileSpanCycles must be positive")
	}
	return nil
}
