package movement

import "fmt"

// Config holds MovementBody's rotation, RPM, lock-hierarchy, and idle-decay
// parameters (§4.F). CyclesPerRot is overwritten by gateconfig.Profile.Build
// from Profile.CyclesPerRot, the single value shared across the pipeline
// (§9 note 3).
type Config struct {
	CyclesPerRot float64

	RpmBeta       float64
	RpmMoveThresh float64

	LockCyclesMin     int
	LockGlobalHi      float64
	LockWindowMin     float64
	LockPromoteCycles int

	UnlockGlobalLo             float64
	UnlockWindowConflictCycles int
	UnlockWindowHi             float64
	HardFlipCycles             int
	ProlongedDropCycles        int

	IdleTimeoutUs    uint64
	IdleUnlockTimeUs uint64
	IdleDecayFactor  float64 // per-tile multiplicative RPM decay while idle
}

// DefaultConfig returns production-tuned parameters.
func DefaultConfig() Config {
	return Config{
		CyclesPerRot: 24.0,

		RpmBeta:       0.2,
		RpmMoveThresh: 1.0,

		LockCyclesMin:     4,
		LockGlobalHi:      0.35,
		LockWindowMin:     0.35,
		LockPromoteCycles: 6,

		UnlockGlobalLo:             0.15,
		UnlockWindowConflictCycles: 4,
		UnlockWindowHi:             0.35,
		HardFlipCycles:             10,
		ProlongedDropCycles:        8,

		IdleTimeoutUs:    2_000_000,
		IdleUnlockTimeUs: 10_000_000,
		IdleDecayFactor:  0.8,
	}
}

// Validate checks the configuration is internally consistent.
func (c Config) Validate() error {
	if c.CyclesPerRot <= 0 {
		return fmt.Errorf("movement: CyclesPerRot must be positive")
	}
	if c.RpmBeta <= 0 || c.RpmBeta > 1 {
		return fmt.Errorf("movement: RpmBeta must be in (0,1]")
	}
	if c.LockCyclesMin <= 0 || c.LockPromoteCycles <= 0 {
		return fmt.Errorf("movement: lock cycle counts must be positive")
	}
	if c.UnlockGlobalLo < 0 || c.UnlockGlobalLo >= c.LockGlobalHi {
		return fmt.Errorf("movement: UnlockGlobalLo must be in [0,LockGlobalHi)")
	}
	if c.IdleUnlockTimeUs < c.IdleTimeoutUs {
		return fmt.Errorf("movement: IdleUnlockTimeUs must be >= IdleTimeoutUs")
	}
	if c.IdleDecayFactor <= 0 || c.IdleDecayFactor >= 1 {
		return fmt.Errorf("movement: IdleDecayFactor must be in (0,1)")
	}
	return nil
}
