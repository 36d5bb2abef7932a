package origin

import "github.com/hallgate/hallgated/internal/events"

// Awareness is the five-level classification of what the manipulator is
// observing, from quiescent to confirmed rotation (§4.H).
type Awareness int

const (
	AwarenessStill Awareness = iota
	AwarenessNoise
	AwarenessPreMovement
	AwarenessPreRotation
	AwarenessMovement
)

func (a Awareness) String() string {
	switch a {
	case AwarenessNoise:
		return "NOISE"
	case AwarenessPreMovement:
		return "PRE_MOVEMENT"
	case AwarenessPreRotation:
		return "PRE_ROTATION"
	case AwarenessMovement:
		return "MOVEMENT"
	default:
		return "STILL"
	}
}

// TriggerReason is the closed set of MDI/origin/gap reason codes emitted
// as state-transition breadcrumbs (§4.H).
type TriggerReason string

const (
	ReasonNone               TriggerReason = ""
	ReasonMDITriggerA        TriggerReason = "MDI_TRIGGER_A"
	ReasonMDITriggerADropped TriggerReason = "MDI_TRIGGER_A_DROPPED"
	ReasonMDITriggerB        TriggerReason = "MDI_TRIGGER_B"
	ReasonMDILatch           TriggerReason = "MDI_LATCH"
	ReasonMDITrigger         TriggerReason = "MDI_TRIGGER"
	ReasonMDILatchDropped    TriggerReason = "MDI_LATCH_DROPPED"
	ReasonOriginCandidate    TriggerReason = "ORIGIN_CANDIDATE"
	ReasonOriginCommitted    TriggerReason = "ORIGIN_COMMITTED"
	ReasonOriginDropped      TriggerReason = "ORIGIN_DROPPED"
	ReasonHardGapReset       TriggerReason = "HARD_GAP_RESET"
	ReasonSoftGapReset       TriggerReason = "SOFT_GAP_RESET"
)

// poolRecord is one time-stamped pool observation retained in the
// pool-transition or MDI sliding windows.
type poolRecord struct {
	ToPool events.Pool
	Sensor uint8
	TUs    uint64
}

// WindowStats are the per-tick derived statistics computed from the MDI
// window (§4.H).
type WindowStats struct {
	EvWin           int
	Changes         int
	UniquePools     int
	ValidRate       float64
	AlternationRate float64
	Tremor          float64
	MDIConf         float64
}

// PoolWindowStats are the per-tick derived statistics computed from the
// longer pool-transition window (pool_win_ms), gating the origin
// candidate/commit two-phase logic independently of the MDI window's
// trigger logic (§4.H).
type PoolWindowStats struct {
	Changes     int
	UniquePools int
	ValidRate   float64
}

// Tick is the per-update drive for OriginTracker's gap handling and
// awareness evaluation.
type Tick struct {
	NowUs         uint64
	ThetaHatDeg   float64
	ActivityScore float64
	LockActive    bool // lock ∈ {SOFT_LOCK, LOCKED}
	SpeedDegS     float64
}

// Snapshot is OriginTracker's output after processing one Tick.
type Snapshot struct {
	Awareness       Awareness
	Reason          TriggerReason
	MDILatched      bool
	MDIConfAcc      float64
	MDIMicroAcc     float64
	OriginCandidate bool
	OriginCommitted bool
	ThetaAnchorDeg  float64
	DispFromOriginDeg float64
}
