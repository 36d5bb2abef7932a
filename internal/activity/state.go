package activity

import (
	"math"

	"github.com/hallgate/hallgated/internal/movement"
)

// State is PhysicalActivity.
type State struct {
	cfg Config

	haveUpdate     bool
	lastWallTimeS  float64
	lastTotalCycles float64

	lastEventWallTimeS float64
	lastCycleWallTimeS float64

	activityScore float64
	encoderConf   float64
}

// New constructs a State with the given config.
func New(cfg Config) *State {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &State{cfg: cfg}
}

// Update processes one tick's Input and returns the resulting Snapshot.
func (s *State) Update(in Input) Snapshot {
	thetaHatDeg := wrapNonNegative(in.TotalCyclesPhysical / s.cfg.CyclesPerRot * 360)

	if !s.haveUpdate {
		s.haveUpdate = true
		s.lastWallTimeS = in.WallTimeS
		s.lastTotalCycles = in.TotalCyclesPhysical
		s.lastEventWallTimeS = in.WallTimeS
		s.lastCycleWallTimeS = in.WallTimeS
		return Snapshot{
			Class:       ClassStill,
			Reason:      ReasonInit,
			ThetaHatDeg: thetaHatDeg,
		}
	}

	dt := in.WallTimeS - s.lastWallTimeS

	if dt > s.cfg.HardResetS {
		s.activityScore = 0
		s.encoderConf = 0
		s.lastWallTimeS = in.WallTimeS
		s.lastTotalCycles = in.TotalCyclesPhysical
		s.lastEventWallTimeS = in.WallTimeS
		s.lastCycleWallTimeS = in.WallTimeS
		return Snapshot{
			Class:       ClassStill,
			Reason:      ReasonHardResetGap,
			ThetaHatDeg: thetaHatDeg,
		}
	}

	deltaCycles := in.TotalCyclesPhysical - s.lastTotalCycles
	deltaThetaDeg := wrapSigned(deltaCycles / s.cfg.CyclesPerRot * 360)

	if deltaCycles > 0 {
		s.lastCycleWallTimeS = in.WallTimeS
	}
	if in.EventsThisBatch > 0 {
		s.lastEventWallTimeS = in.WallTimeS
	}

	decay := math.Exp(-s.cfg.ActivityDecayRate * dt)
	s.activityScore = s.activityScore*decay + float64(in.EventsThisBatch)

	encDecay := math.Exp(-dt / s.cfg.EncoderTauS)
	s.encoderConf *= encDecay
	if deltaCycles > 0 {
		s.encoderConf += s.cfg.EncoderCycleBoost
	}
	if in.EventsThisBatch > 0 {
		s.encoderConf += s.cfg.EncoderEventBoost
	}
	if in.Lock == movement.LockLocked {
		s.encoderConf += s.cfg.EncoderLockedDrift
	}
	s.encoderConf = clamp01(s.encoderConf)

	ageEventS := in.WallTimeS - s.lastEventWallTimeS
	ageCycleS := in.WallTimeS - s.lastCycleWallTimeS
	gapS := s.cfg.GapMs / 1000
	disp := math.Abs(deltaThetaDeg)

	class, reason := classify(s.cfg, ageEventS, ageCycleS, gapS, s.activityScore, disp, in.Lock, in.CompassConf)

	s.lastWallTimeS = in.WallTimeS
	s.lastTotalCycles = in.TotalCyclesPhysical

	return Snapshot{
		Class:         class,
		Reason:        reason,
		ThetaHatDeg:   thetaHatDeg,
		DeltaThetaDeg: deltaThetaDeg,
		ActivityScore: s.activityScore,
		EncoderConf:   s.encoderConf,
	}
}

func classify(cfg Config, ageEventS, ageCycleS, gapS, activityScore, disp float64, lock movement.LockState, compassConf float64) (Class, Reason) {
	switch {
	case ageEventS >= gapS && ageCycleS >= gapS:
		return ClassStill, ReasonStillGapTimeout
	case activityScore < cfg.A0 && disp < cfg.D0:
		return ClassStill, ReasonStillLowActivity
	case disp >= cfg.D0:
		switch {
		case lock == movement.LockSoft || lock == movement.LockLocked:
			return ClassMoving, ReasonMovingLocked
		case compassConf >= cfg.C0:
			return ClassMoving, ReasonMovingStableDir
		default:
			return ClassDisplacement, ReasonDispAboveD0
		}
	case activityScore >= cfg.A1:
		return ClassScrape, ReasonScrapeHighActivity
	case activityScore >= cfg.A0:
		return ClassFeeling, ReasonFeelingActivityNoDisp
	default:
		return ClassStill, ReasonStillLowActivity
	}
}

// wrapSigned wraps a degree value into [-180,+180).
func wrapSigned(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg >= 180 {
		deg -= 360
	} else if deg < -180 {
		deg += 360
	}
	return deg
}

// wrapNonNegative wraps a degree value into [0,360).
func wrapNonNegative(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
