package pipeline

import (
	"github.com/hallgate/hallgated/internal/activity"
	"github.com/hallgate/hallgated/internal/compass"
	"github.com/hallgate/hallgated/internal/cycles"
	"github.com/hallgate/hallgated/internal/events"
	"github.com/hallgate/hallgated/internal/gate"
	"github.com/hallgate/hallgated/internal/movement"
	"github.com/hallgate/hallgated/internal/origin"
	"github.com/hallgate/hallgated/internal/tiles"
)

// EventResult is feed_event's output for one canonical event (§4.J): the
// B→C→D→E→F chain's result, or a reject reason if canonicalization or
// cycle detection rejected the event before reaching the tile stage.
type EventResult struct {
	CanonicalReject events.RejectReason
	CycleReject     cycles.RejectReason
	TilesEmitted    []tiles.Tile
	Compass         compass.Snapshot
	Movement        movement.Snapshot
}

// TickInput is the per-tick drive for the L1/OriginTracker/ActionGate
// stages (§6): wall-clock time, batch event count, and the externally
// supplied Action Intent.
type TickInput struct {
	WallTimeS       float64
	NowMs           uint64
	EventsThisBatch int
	ActionIntent    gate.ActionIntent
	IntentSource    string
	ArmSignal       bool
	ForceFallback   bool
}

// TickOutput bundles the three tick-driven stages' snapshots.
type TickOutput struct {
	Activity activity.Snapshot
	Origin   origin.Snapshot
	Gate     gate.GateOutput
}

// Snapshot is a side-effect-free value snapshot of the pipeline's current
// state (§4.J, §5 property 9).
type Snapshot struct {
	TotalCyclesPhysical float64
	Compass             compass.Snapshot
	Movement            movement.Snapshot
}

// Debug is the CycleBuilder debug projection: TruthProbe counters and
// tail buffers, intended for observability sinks only (§4.J).
type Debug struct {
	EventCounters events.Counters
	CycleProbe    *cycles.TruthProbe
}
