package activity

import (
	"github.com/hallgate/hallgated/internal/compass"
	"github.com/hallgate/hallgated/internal/movement"
)

// Class is the five-state tactile/kinematic classification.
type Class string

const (
	ClassStill        Class = "STILL"
	ClassFeeling      Class = "FEELING"
	ClassScrape       Class = "SCRAPE"
	ClassDisplacement Class = "DISPLACEMENT"
	ClassMoving       Class = "MOVING"
)

// Reason is the closed set of classification reason codes (§4.G).
type Reason string

const (
	ReasonInit                Reason = "INIT"
	ReasonStillGapTimeout     Reason = "STILL_GAP_TIMEOUT"
	ReasonStillLowActivity    Reason = "STILL_LOW_ACTIVITY"
	ReasonFeelingActivityNoDisp Reason = "FEELING_ACTIVITY_NO_DISP"
	ReasonScrapeHighActivity  Reason = "SCRAPE_HIGH_ACTIVITY"
	ReasonDispAboveD0         Reason = "DISP_ABOVE_D0"
	ReasonMovingStableDir     Reason = "MOVING_STABLE_DIR"
	ReasonMovingLocked        Reason = "MOVING_LOCKED"
	ReasonHardResetGap        Reason = "HARD_RESET_GAP"
)

// Input is the per-tick drive for PhysicalActivity (§4.G).
type Input struct {
	WallTimeS           float64
	TotalCyclesPhysical float64
	EventsThisBatch     int
	CompassConf         float64
	Lock                movement.LockState
	DirectionEffective  compass.Direction
}

// Snapshot is PhysicalActivity's output after processing one tick.
type Snapshot struct {
	Class          Class
	Reason         Reason
	ThetaHatDeg    float64
	DeltaThetaDeg  float64
	ActivityScore  float64
	EncoderConf    float64
}
