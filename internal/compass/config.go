package compass

import "fmt"

// Config holds InertialCompass's EMA and hysteresis parameters (§4.E).
type Config struct {
	// Alpha is the EMA smoothing factor applied to each tile's imbalance
	// delta, in (0,1].
	Alpha float64
	// ThresholdHigh is the |score| at or above which direction latches to
	// CW/CCW.
	ThresholdHigh float64
	// ThresholdLow is the |score| below which direction resets to
	// UNDECIDED. Between ThresholdLow and ThresholdHigh the previously
	// latched direction is retained (hysteresis band).
	ThresholdLow float64
}

// DefaultConfig returns production-tuned EMA and hysteresis parameters.
func DefaultConfig() Config {
	return Config{
		Alpha:         0.2,
		ThresholdHigh: 0.35,
		ThresholdLow:  0.15,
	}
}

// Validate checks the configuration is internally consistent.
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("compass: Alpha must be in (0,1]")
	}
	if c.ThresholdHigh <= 0 || c.ThresholdHigh > 1 {
		return fmt.Errorf("compass: ThresholdHigh must be in (0,1]")
	}
	if c.ThresholdLow < 0 || c.ThresholdLow >= c.ThresholdHigh {
		return fmt.Errorf("compass: ThresholdLow must be in [0,ThresholdHigh)")
	}
	return nil
}
