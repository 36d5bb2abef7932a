package movement

import "github.com/hallgate/hallgated/internal/compass"

// RotorState is whether the mechanism is moving or at rest.
type RotorState int

const (
	RotorStill RotorState = iota
	RotorMovement
)

func (r RotorState) String() string {
	if r == RotorMovement {
		return "MOVEMENT"
	}
	return "STILL"
}

// LockState is the hierarchical directional-confidence ladder.
type LockState int

const (
	LockUnlocked LockState = iota
	LockSoft
	LockLocked
)

func (l LockState) String() string {
	switch l {
	case LockSoft:
		return "SOFT_LOCK"
	case LockLocked:
		return "LOCKED"
	default:
		return "UNLOCKED"
	}
}

// Snapshot is MovementBody's output after processing one tile.
type Snapshot struct {
	TotalCyclesPhysical float64
	Rotations           float64
	ThetaDeg            float64
	RpmEst              float64
	Rotor               RotorState
	Lock                LockState
	Direction           compass.Direction
}
