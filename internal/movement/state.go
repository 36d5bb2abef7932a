package movement

import (
	"math"

	"github.com/hallgate/hallgated/internal/compass"
	"github.com/hallgate/hallgated/internal/tiles"
)

// State is MovementBody.
type State struct {
	cfg Config

	totalCyclesPhysical float64
	rotations           float64
	thetaDeg            float64

	haveRpm bool
	rpmEst  float64
	rotor   RotorState

	haveLastTile     bool
	lastTileCenterUs uint64
	idleAccumulatedUs uint64

	lock            LockState
	lockDirection   compass.Direction
	matchStreak     int
	promoteStreak   int
	lowMagStreak    int
	opposeStreak    int
}

// New constructs a State with the given config.
func New(cfg Config) *State {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &State{cfg: cfg, lockDirection: compass.DirUndecided}
}

// Feed processes one Tile and its Compass Snapshot, returning the resulting
// MovementBody Snapshot.
func (s *State) Feed(t tiles.Tile, snap compass.Snapshot) Snapshot {
	dtUs := s.computeDt(t)

	s.totalCyclesPhysical += t.CyclesPhysical
	s.rotations = s.totalCyclesPhysical / s.cfg.CyclesPerRot
	s.thetaDeg = math.Mod(s.rotations*360, 360)
	if s.thetaDeg < 0 {
		s.thetaDeg += 360
	}

	s.updateRpm(t, dtUs)
	s.updateIdle(dtUs)

	if s.rpmEst >= s.cfg.RpmMoveThresh {
		s.rotor = RotorMovement
	} else {
		s.rotor = RotorStill
	}

	s.updateLock(snap)

	s.lastTileCenterUs = t.TCenterUs
	s.haveLastTile = true

	return Snapshot{
		TotalCyclesPhysical: s.totalCyclesPhysical,
		Rotations:           s.rotations,
		ThetaDeg:            s.thetaDeg,
		RpmEst:              s.rpmEst,
		Rotor:                s.rotor,
		Lock:                 s.lock,
		Direction:            s.lockDirection,
	}
}

func (s *State) computeDt(t tiles.Tile) uint64 {
	if !s.haveLastTile {
		return 0
	}
	if t.TCenterUs <= s.lastTileCenterUs {
		return 0
	}
	return t.TCenterUs - s.lastTileCenterUs
}

func (s *State) updateRpm(t tiles.Tile, dtUs uint64) {
	if dtUs == 0 {
		return
	}
	dtS := float64(dtUs) / 1e6
	cyclesPerS := t.CyclesPhysical / dtS
	rpmInst := (cyclesPerS / s.cfg.CyclesPerRot) * 60
	if !s.haveRpm {
		s.rpmEst = rpmInst
		s.haveRpm = true
		return
	}
	s.rpmEst = (1-s.cfg.RpmBeta)*s.rpmEst + s.cfg.RpmBeta*rpmInst
}

func (s *State) updateIdle(dtUs uint64) {
	if dtUs <= s.cfg.IdleTimeoutUs {
		s.idleAccumulatedUs = 0
		return
	}
	s.idleAccumulatedUs += dtUs
	s.rpmEst *= s.cfg.IdleDecayFactor
	if s.idleAccumulatedUs >= s.cfg.IdleUnlockTimeUs {
		s.rotor = RotorStill
		s.rpmEst = 0
		s.resetLock()
	}
}

func (s *State) resetLock() {
	s.lock = LockUnlocked
	s.matchStreak = 0
	s.promoteStreak = 0
	s.lowMagStreak = 0
	s.opposeStreak = 0
}

func (s *State) updateLock(snap compass.Snapshot) {
	magnitude := snap.Conf

	switch s.lock {
	case LockUnlocked:
		strong := magnitude >= s.cfg.LockGlobalHi && snap.Conf >= s.cfg.LockWindowMin && snap.Direction != compass.DirUndecided
		if strong && snap.Direction == s.lockDirection {
			s.matchStreak++
		} else if strong {
			s.matchStreak = 1
			s.lockDirection = snap.Direction
		} else {
			s.matchStreak = 0
		}
		if s.matchStreak >= s.cfg.LockCyclesMin {
			s.lock = LockSoft
			s.promoteStreak = 0
			s.lowMagStreak = 0
		}

	case LockSoft:
		matches := snap.Direction == s.lockDirection && magnitude >= s.cfg.LockGlobalHi && snap.Conf >= s.cfg.LockWindowMin
		if matches {
			s.promoteStreak++
		} else {
			s.promoteStreak = 0
		}
		if s.promoteStreak >= s.cfg.LockPromoteCycles {
			s.lock = LockLocked
			s.opposeStreak = 0
			s.lowMagStreak = 0
			break
		}
		if magnitude < s.cfg.UnlockGlobalLo {
			s.lowMagStreak++
		} else {
			s.lowMagStreak = 0
		}
		if s.lowMagStreak >= s.cfg.ProlongedDropCycles {
			s.resetLock()
		}

	case LockLocked:
		if magnitude < s.cfg.UnlockGlobalLo {
			s.lock = LockSoft
			s.promoteStreak = 0
			s.opposeStreak = 0
			break
		}
		opposing := snap.Direction != compass.DirUndecided && snap.Direction != s.lockDirection && snap.Conf >= s.cfg.UnlockWindowHi
		if !opposing {
			s.opposeStreak = 0
			break
		}
		s.opposeStreak++
		if s.opposeStreak >= s.cfg.HardFlipCycles {
			s.lockDirection = snap.Direction
			s.lock = LockSoft
			s.promoteStreak = 0
			s.opposeStreak = 0
		} else if s.opposeStreak >= s.cfg.UnlockWindowConflictCycles {
			s.lock = LockSoft
			s.promoteStreak = 0
			s.opposeStreak = 0
		}
	}
}
