package activity

import "fmt"

// Config holds PhysicalActivity's decay rates and classification
// thresholds (§4.G). CyclesPerRot mirrors movement.Config.CyclesPerRot by
// construction — the pipeline façade owns the single value and
// constructs both configs from it (§9 note 3).
type Config struct {
	CyclesPerRot float64

	HardResetS        float64
	GapMs             float64
	ActivityDecayRate float64
	EncoderTauS       float64

	EncoderCycleBoost   float64
	EncoderEventBoost   float64
	EncoderLockedDrift  float64

	A0 float64 // low-activity threshold
	A1 float64 // high-activity threshold
	D0 float64 // displacement threshold (degrees)
	C0 float64 // compass confidence threshold for stable direction
}

// DefaultConfig returns production-tuned parameters.
func DefaultConfig() Config {
	return Config{
		CyclesPerRot: 24.0,

		HardResetS:        5.0,
		GapMs:             1500,
		ActivityDecayRate: 0.5,
		EncoderTauS:       2.0,

		EncoderCycleBoost:  0.15,
		EncoderEventBoost:  0.05,
		EncoderLockedDrift: 0.01,

		A0: 0.5,
		A1: 2.0,
		D0: 1.0,
		C0: 0.5,
	}
}

// Validate checks the configuration is internally consistent.
func (c Config) Validate() error {
	if c.CyclesPerRot <= 0 {
		return fmt.Errorf("activity: CyclesPerRot must be positive")
	}
	if c.HardResetS <= 0 {
		return fmt.Errorf("activity: HardResetS must be positive")
	}
	if c.GapMs <= 0 {
		return fmt.Errorf("activity: GapMs must be positive")
	}
	if c.ActivityDecayRate <= 0 {
		return fmt.Errorf("activity: ActivityDecayRate must be positive")
	}
	if c.EncoderTauS <= 0 {
		return fmt.Errorf("activity: EncoderTauS must be positive")
	}
	if c.A0 < 0 || c.A1 <= c.A0 {
		return fmt.Errorf("activity: must have 0 <= A0 < A1")
	}
	if c.D0 < 0 {
		return fmt.Errorf("activity: D0 must be non-negative")
	}
	if c.C0 < 0 || c.C0 > 1 {
		return fmt.Errorf("activity: C0 must be in [0,1]")
	}
	return nil
}
