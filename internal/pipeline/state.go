package pipeline

import (
	"github.com/google/uuid"

	"github.com/hallgate/hallgated/internal/activity"
	"github.com/hallgate/hallgated/internal/compass"
	"github.com/hallgate/hallgated/internal/cycles"
	"github.com/hallgate/hallgated/internal/events"
	"github.com/hallgate/hallgated/internal/gate"
	"github.com/hallgate/hallgated/internal/gateconfig"
	"github.com/hallgate/hallgated/internal/movement"
	"github.com/hallgate/hallgated/internal/origin"
	"github.com/hallgate/hallgated/internal/tiles"
	"github.com/hallgate/hallgated/internal/wire"
)

// State is the CycleBuilder façade. It owns one instance of every stage
// and is not safe for concurrent use — callers drive it from a single
// goroutine, matching the core's cooperative single-threaded model (§5).
type State struct {
	canon    *events.Canonicalizer
	cycles   *cycles.State
	tiles    *tiles.State
	compass  *compass.State
	movement *movement.State
	activity *activity.State
	origin   *origin.State
	gate     *gate.State

	lastCompass  compass.Snapshot
	lastMovement movement.Snapshot
	lastGate     gate.GateOutput

	lastEventUs    uint64
	haveLastEvent  bool

	decoder *wire.Decoder

	sessionID string
}

// New constructs a pipeline from a built configuration profile. Each
// instance is stamped with a fresh session identifier (§4.N), used to
// correlate its telemetry rows and gate logs across a single run.
func New(profile gateconfig.Profile) *State {
	built := profile.Build()
	return &State{
		sessionID: uuid.NewString(),
		canon:    events.NewCanonicalizer(),
		cycles:   cycles.New(built.Cycles),
		tiles:    tiles.New(built.Tiles),
		compass:  compass.New(built.Compass),
		movement: movement.New(built.Movement),
		activity: activity.New(built.Activity),
		origin:   origin.New(built.Origin),
		gate:     gate.New(built.Gate),
	}
}

// FeedBytes pushes a chunk of serial bytes through the wire decoder and
// runs the B→C→D→E→F chain on every frame it yields.
func (p *State) FeedBytes(chunk []byte) []EventResult {
	if p.decoder == nil {
		p.decoder = wire.NewDecoder()
	}
	var out []EventResult
	for _, f := range p.decoder.PushBytes(chunk) {
		out = append(out, p.FeedEvent(f.Type, f.Payload))
	}
	return out
}

// FeedEvent runs one already-framed payload through canonicalization,
// cycle detection, tiling, compass, and movement (§4.J), and records the
// canonical pool transition into OriginTracker's sliding windows so Tick's
// later origin candidate/commit evaluation has data to work from. A
// reject at any stage short-circuits the rest of the chain; TilesEmitted,
// Compass, and Movement are left at their zero values in that case.
func (p *State) FeedEvent(pt wire.PacketType, payload []byte) EventResult {
	ce, reason := p.canon.Canonicalize(pt, payload)
	if reason != events.RejectNone {
		return EventResult{CanonicalReject: reason}
	}
	p.lastEventUs = ce.TAbsUs
	p.haveLastEvent = true
	p.origin.RecordEvent(ce.ToPool, ce.Sensor, ce.TAbsUs)

	cyc, cr := p.cycles.Feed(ce)
	if cr != cycles.RejectNone {
		return EventResult{CycleReject: cr}
	}

	emitted := p.tiles.Feed(cyc)
	res := EventResult{TilesEmitted: emitted}
	for _, t := range emitted {
		p.lastCompass = p.compass.Feed(t)
		p.lastMovement = p.movement.Feed(t, p.lastCompass)
	}
	res.Compass = p.lastCompass
	res.Movement = p.lastMovement
	return res
}

// Tick drives the tick-based PhysicalActivity, OriginTracker, and
// ActionGate stages from the current compass/movement snapshots (§6).
// Coherence blends compass confidence with OriginTracker's MDI
// confidence, an implementation choice since no formula for the gate
// basis's coherence_score is given (§4.I, §9).
func (p *State) Tick(in TickInput) TickOutput {
	actSnap := p.activity.Update(activity.Input{
		WallTimeS:           in.WallTimeS,
		TotalCyclesPhysical: p.lastMovement.TotalCyclesPhysical,
		EventsThisBatch:     in.EventsThisBatch,
		CompassConf:         p.lastCompass.Conf,
		Lock:                p.lastMovement.Lock,
		DirectionEffective:  p.lastMovement.Direction,
	})

	lockActive := p.lastMovement.Lock == movement.LockSoft || p.lastMovement.Lock == movement.LockLocked
	origSnap := p.origin.Update(origin.Tick{
		NowUs:         in.NowMs * 1000,
		ThetaHatDeg:   actSnap.ThetaHatDeg,
		ActivityScore: actSnap.ActivityScore,
		LockActive:    lockActive,
		SpeedDegS:     p.lastMovement.RpmEst * 6,
	})

	coherence := clamp01(0.5*p.lastCompass.Conf + 0.5*origSnap.MDIConfAcc)
	dataAgeMs := p.dataAgeMs(in.NowMs)

	gateOut := p.gate.Evaluate(gate.GateInput{
		NowMs:         in.NowMs,
		Coherence:     coherence,
		Lock:          p.lastMovement.Lock,
		DataAgeMs:     dataAgeMs,
		ActionIntent:  in.ActionIntent,
		IntentSource:  in.IntentSource,
		ArmSignal:     in.ArmSignal,
		ForceFallback: in.ForceFallback,
	})
	p.lastGate = gateOut

	return TickOutput{Activity: actSnap, Origin: origSnap, Gate: gateOut}
}

func (p *State) dataAgeMs(nowMs uint64) float64 {
	if !p.haveLastEvent {
		return 0
	}
	lastMs := p.lastEventUs / 1000
	if nowMs <= lastMs {
		return 0
	}
	return float64(nowMs - lastMs)
}

// SessionID returns this pipeline instance's identifier, for stamping
// telemetry rows and correlating gate logs (§4.N).
func (p *State) SessionID() string { return p.sessionID }

// Snapshot returns the pipeline's current value snapshot without any
// side effects (§4.J, §5 property 9).
func (p *State) Snapshot() Snapshot {
	return Snapshot{
		TotalCyclesPhysical: p.lastMovement.TotalCyclesPhysical,
		Compass:             p.lastCompass,
		Movement:            p.lastMovement,
	}
}

// Debug returns the CycleBuilder debug projection: TruthProbe counters
// and tail buffers, for observability sinks only. Nothing in the
// pipeline's correctness depends on callers reading it.
func (p *State) Debug() Debug {
	return Debug{
		EventCounters: p.canon.Counters,
		CycleProbe:    p.cycles.TruthProbe(),
	}
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
