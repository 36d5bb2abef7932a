package origin

import (
	"math"

	"github.com/hallgate/hallgated/internal/events"
)

// State is OriginTracker.
type State struct {
	cfg Config

	poolWindow []poolRecord
	mdiWindow  []poolRecord
	lastPool   map[uint8]events.Pool

	mdiMicroAcc    float64
	pendingChanges int

	haveConfAcc bool
	mdiConfAcc  float64

	haveLastUpdate bool
	lastUpdateUs   uint64

	haveLastEvent bool
	lastEventTUs  uint64

	// Mode A state
	aTriggered     bool
	aTriggerUs     uint64
	aConfirmChanges int

	// Mode B state
	bMicroAccDeg float64

	// Mode C state
	latchSet               bool
	latchT0Us              uint64
	latchChangesSinceLatch int
	thetaAtLatchDeg        float64

	// Origin two-phase state
	candidateSet      bool
	candidateUs       uint64
	candidateThetaDeg float64
	dispExtremumDeg   float64

	commitSet           bool
	commitThetaAnchorDeg float64

	awareness Awareness
}

// New constructs a State with the given config.
func New(cfg Config) *State {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &State{cfg: cfg, lastPool: map[uint8]events.Pool{}}
}

// RecordEvent registers one canonical event's pool transition into both
// sliding windows and updates the MDI micro-accumulator (§4.H).
func (s *State) RecordEvent(toPool events.Pool, sensor uint8, tUs uint64) {
	rec := poolRecord{ToPool: toPool, Sensor: sensor, TUs: tUs}

	s.poolWindow = append(s.poolWindow, rec)
	s.trimPoolWindow(tUs)

	changed := false
	if prev, ok := s.lastPool[sensor]; ok {
		changed = prev != toPool
	}
	s.lastPool[sensor] = toPool

	s.mdiWindow = append(s.mdiWindow, rec)
	s.trimMdiWindow(tUs)

	if changed {
		s.mdiMicroAcc++
		s.pendingChanges++
		if s.isRecentFlipFlop(sensor, tUs) {
			s.mdiMicroAcc -= 0.5
		}
	}

	s.lastEventTUs = tUs
	s.haveLastEvent = true
}

// Update advances OriginTracker by one tick: recomputes window statistics,
// runs the configured MDI mode, the origin candidate/commit two-phase
// logic, gap handling, and the awareness state machine (§4.H).
func (s *State) Update(tick Tick) Snapshot {
	s.trimPoolWindow(tick.NowUs)
	s.trimMdiWindow(tick.NowUs)
	stats := s.computeStats()
	poolStats := s.computePoolStats()

	dtS := 0.0
	if s.haveLastUpdate && tick.NowUs > s.lastUpdateUs {
		dtS = float64(tick.NowUs-s.lastUpdateUs) / 1e6
	}
	if !s.haveConfAcc {
		s.mdiConfAcc = stats.MDIConf
		s.haveConfAcc = true
	} else if s.cfg.MdiConfTauS > 0 {
		alpha := 1 - math.Exp(-dtS/s.cfg.MdiConfTauS)
		s.mdiConfAcc = (1-alpha)*s.mdiConfAcc + alpha*stats.MDIConf
	}

	changes := s.pendingChanges
	s.pendingChanges = 0

	reason := ReasonNone
	switch s.cfg.Mode {
	case ModeA:
		reason = s.updateModeA(tick, stats, changes)
	case ModeB:
		reason = s.updateModeB(stats, changes)
	default:
		reason = s.updateModeC(tick, stats, changes)
	}

	if r := s.updateOrigin(tick, poolStats); r != ReasonNone {
		reason = r
	}

	if r := s.handleGap(tick); r != ReasonNone {
		reason = r
	}

	disp := 0.0
	if s.commitSet {
		disp = wrapSigned(tick.ThetaHatDeg - s.commitThetaAnchorDeg)
	}

	s.updateAwareness(tick, disp)

	s.lastUpdateUs = tick.NowUs
	s.haveLastUpdate = true

	return Snapshot{
		Awareness:         s.awareness,
		Reason:            reason,
		MDILatched:        s.latchSet,
		MDIConfAcc:        s.mdiConfAcc,
		MDIMicroAcc:       s.mdiMicroAcc,
		OriginCandidate:   s.candidateSet,
		OriginCommitted:   s.commitSet,
		ThetaAnchorDeg:    s.commitThetaAnchorDeg,
		DispFromOriginDeg: disp,
	}
}

func (s *State) updateModeA(tick Tick, stats WindowStats, changes int) TriggerReason {
	if !s.aTriggered {
		if changes > 0 && stats.MDIConf >= s.cfg.MdiConfMinA && stats.Tremor == 0 {
			s.aTriggered = true
			s.aTriggerUs = tick.NowUs
			s.aConfirmChanges = 0
			return ReasonMDITriggerA
		}
		return ReasonNone
	}

	elapsedS := float64(tick.NowUs-s.aTriggerUs) / 1e6
	s.aConfirmChanges += changes
	if elapsedS <= s.cfg.MdiConfirmSA {
		if s.aConfirmChanges >= s.cfg.MdiConfirmChangesA {
			s.aTriggered = false
			return ReasonMDITriggerA
		}
		return ReasonNone
	}
	s.aTriggered = false
	return ReasonMDITriggerADropped
}

func (s *State) updateModeB(stats WindowStats, changes int) TriggerReason {
	stepDeg := 10.0
	switch stats.EvWin {
	case 3:
		stepDeg = 15.0
	case 6:
		stepDeg = 12.0
	}
	s.bMicroAccDeg += float64(changes) * stepDeg
	if s.bMicroAccDeg >= s.cfg.MdiTriggerMicroDeg && stats.MDIConf >= s.cfg.MdiConfirmConf && stats.Tremor == 0 {
		s.bMicroAccDeg = 0
		return ReasonMDITriggerB
	}
	return ReasonNone
}

func (s *State) updateModeC(tick Tick, stats WindowStats, changes int) TriggerReason {
	if !s.latchSet {
		if changes > 0 && stats.Tremor == 0 {
			s.latchSet = true
			s.latchT0Us = tick.NowUs
			s.latchChangesSinceLatch = changes
			s.thetaAtLatchDeg = tick.ThetaHatDeg
			return ReasonMDILatch
		}
		return ReasonNone
	}

	elapsedS := float64(tick.NowUs-s.latchT0Us) / 1e6
	s.latchChangesSinceLatch += changes
	microDeg := math.Abs(wrapSigned(tick.ThetaHatDeg - s.thetaAtLatchDeg))

	if elapsedS <= s.cfg.MdiLatchConfirmS {
		if s.latchChangesSinceLatch >= s.cfg.MdiConfirmChanges ||
			microDeg >= s.cfg.MdiConfirmMicroDeg ||
			stats.MDIConf >= s.cfg.MdiConfirmConf {
			s.latchSet = false
			return ReasonMDITrigger
		}
		return ReasonNone
	}

	if elapsedS > s.cfg.MdiLatchDropS {
		s.latchSet = false
		s.mdiMicroAcc *= 0.5
		return ReasonMDILatchDropped
	}
	return ReasonNone
}

func (s *State) updateOrigin(tick Tick, stats PoolWindowStats) TriggerReason {
	if !s.candidateSet && !s.commitSet {
		if stats.Changes >= s.cfg.PoolChangesMin &&
			stats.UniquePools >= s.cfg.PoolUniqueMin &&
			stats.ValidRate >= s.cfg.PoolValidRateMin {
			s.candidateSet = true
			s.candidateUs = tick.NowUs
			s.candidateThetaDeg = tick.ThetaHatDeg
			s.dispExtremumDeg = 0
			return ReasonOriginCandidate
		}
		return ReasonNone
	}

	if s.candidateSet && !s.commitSet {
		elapsedS := float64(tick.NowUs-s.candidateUs) / 1e6
		dispDeg := wrapSigned(tick.ThetaHatDeg - s.candidateThetaDeg)
		if math.Abs(dispDeg) > s.dispExtremumDeg {
			s.dispExtremumDeg = math.Abs(dispDeg)
		}
		rebounded := s.dispExtremumDeg >= s.cfg.OriginStepDeg && math.Abs(dispDeg) < s.cfg.OriginReboundEpsDeg

		if elapsedS <= s.cfg.OriginCommitHorizonS {
			if math.Abs(dispDeg) >= s.cfg.OriginStepDeg && !rebounded {
				s.commitSet = true
				s.commitThetaAnchorDeg = wrapNonNegative(tick.ThetaHatDeg - dispDeg)
				s.candidateSet = false
				s.dispExtremumDeg = 0
				return ReasonOriginCommitted
			}
			if rebounded {
				s.candidateSet = false
				s.dispExtremumDeg = 0
				return ReasonOriginDropped
			}
			if stats.Changes < s.cfg.PoolChangesMin && tick.ActivityScore < s.cfg.LowTactileActivityMax {
				s.candidateSet = false
				s.dispExtremumDeg = 0
				return ReasonOriginDropped
			}
			return ReasonNone
		}

		s.candidateSet = false
		s.dispExtremumDeg = 0
		return ReasonOriginDropped
	}

	return ReasonNone
}

func (s *State) handleGap(tick Tick) TriggerReason {
	if !s.haveLastEvent {
		return ReasonNone
	}
	ageCS := float64(tick.NowUs-s.lastEventTUs) / 1e6
	if ageCS < s.cfg.StopGapS {
		return ReasonNone
	}

	if tick.ActivityScore < s.cfg.LowTactileActivityMax {
		s.resetAll()
		return ReasonHardGapReset
	}

	mdiActive := s.latchSet || s.aTriggered || s.awareness == AwarenessPreMovement
	if !mdiActive {
		s.resetAll()
		return ReasonSoftGapReset
	}
	return ReasonNone
}

func (s *State) resetAll() {
	s.latchSet = false
	s.aTriggered = false
	s.bMicroAccDeg = 0
	s.candidateSet = false
	s.commitSet = false
	s.dispExtremumDeg = 0
	s.mdiMicroAcc = 0
}

func (s *State) updateAwareness(tick Tick, disp float64) {
	switch s.awareness {
	case AwarenessStill:
		if tick.ActivityScore >= s.cfg.NoiseActivityMin {
			s.awareness = AwarenessNoise
		}
	case AwarenessNoise:
		switch {
		case s.latchSet || s.aTriggered:
			s.awareness = AwarenessPreMovement
		case tick.ActivityScore < s.cfg.NoiseActivityMin:
			s.awareness = AwarenessStill
		}
	case AwarenessPreMovement:
		switch {
		case s.candidateSet || s.commitSet:
			s.awareness = AwarenessPreRotation
		case !s.latchSet && !s.aTriggered && tick.ActivityScore < s.cfg.NoiseActivityMin:
			s.awareness = AwarenessStill
		case !s.latchSet && !s.aTriggered:
			s.awareness = AwarenessNoise
		}
	case AwarenessPreRotation:
		switch {
		case s.commitSet && (math.Abs(disp) >= s.cfg.MovementConfirmDeg || math.Abs(tick.SpeedDegS) >= s.cfg.SpeedConfirmDegS || tick.LockActive):
			s.awareness = AwarenessMovement
		case !s.candidateSet && !s.latchSet:
			if tick.ActivityScore < s.cfg.NoiseActivityMin {
				s.awareness = AwarenessStill
			} else {
				s.awareness = AwarenessNoise
			}
		}
	case AwarenessMovement:
		if !s.commitSet {
			if tick.ActivityScore < s.cfg.NoiseActivityMin {
				s.awareness = AwarenessStill
			} else {
				s.awareness = AwarenessNoise
			}
		}
	}
}

func (s *State) computeStats() WindowStats {
	evWin := len(s.mdiWindow)
	changes := 0
	uniqueSet := map[events.Pool]bool{}
	lastBySensor := map[uint8]events.Pool{}
	haveLast := map[uint8]bool{}

	for _, rec := range s.mdiWindow {
		uniqueSet[rec.ToPool] = true
		if haveLast[rec.Sensor] && lastBySensor[rec.Sensor] != rec.ToPool {
			changes++
		}
		lastBySensor[rec.Sensor] = rec.ToPool
		haveLast[rec.Sensor] = true
	}

	flipflops := s.countFlipFlopsInWindow()

	validRate := 0.0
	if evWin > 0 {
		validRate = float64(changes) / float64(evWin)
	}
	alternationRate := 0.0
	if changes > 0 {
		alternationRate = float64(flipflops) / float64(changes)
	}
	tremor := alternationRate

	uniqueBonus := 0.0
	if len(uniqueSet) >= 2 {
		uniqueBonus = 1.0
	}
	mdiConf := clamp01(0.4*validRate + 0.3*alternationRate + 0.3*uniqueBonus - 0.3*tremor)

	return WindowStats{
		EvWin:           evWin,
		Changes:         changes,
		UniquePools:     len(uniqueSet),
		ValidRate:       validRate,
		AlternationRate: alternationRate,
		Tremor:          tremor,
		MDIConf:         mdiConf,
	}
}

// computePoolStats derives PoolWindowStats from the longer pool-transition
// window, independent of the MDI window computeStats draws from. It
// mirrors the ground-truth _compute_pool_stats: per-sensor change counts,
// distinct pool count, and the fraction of window entries carrying a
// valid (non-reserved) pool value.
func (s *State) computePoolStats() PoolWindowStats {
	changes := 0
	unique := map[events.Pool]bool{}
	lastBySensor := map[uint8]events.Pool{}
	haveLast := map[uint8]bool{}
	valid := 0

	for _, rec := range s.poolWindow {
		if rec.ToPool != events.PoolNEU && rec.ToPool != events.PoolN && rec.ToPool != events.PoolS {
			continue
		}
		valid++
		unique[rec.ToPool] = true
		if haveLast[rec.Sensor] && lastBySensor[rec.Sensor] != rec.ToPool {
			changes++
		}
		lastBySensor[rec.Sensor] = rec.ToPool
		haveLast[rec.Sensor] = true
	}

	validRate := 0.0
	if total := len(s.poolWindow); total > 0 {
		validRate = float64(valid) / float64(total)
	}

	return PoolWindowStats{
		Changes:     changes,
		UniquePools: len(unique),
		ValidRate:   validRate,
	}
}

func (s *State) countFlipFlopsInWindow() int {
	bySensor := map[uint8][]poolRecord{}
	for _, rec := range s.mdiWindow {
		bySensor[rec.Sensor] = append(bySensor[rec.Sensor], rec)
	}
	flipWindowUs := uint64(s.cfg.MdiFlipflopWindowMs * 1000)
	count := 0
	for _, recs := range bySensor {
		for i := 2; i < len(recs); i++ {
			a, b, c := recs[i-2], recs[i-1], recs[i]
			if a.ToPool == c.ToPool && a.ToPool != b.ToPool && c.TUs-a.TUs <= flipWindowUs {
				count++
			}
		}
	}
	return count
}

func (s *State) isRecentFlipFlop(sensor uint8, tUs uint64) bool {
	var recs []poolRecord
	for i := len(s.mdiWindow) - 1; i >= 0 && len(recs) < 3; i-- {
		if s.mdiWindow[i].Sensor == sensor {
			recs = append([]poolRecord{s.mdiWindow[i]}, recs...)
		}
	}
	if len(recs) < 3 {
		return false
	}
	a, b, c := recs[0], recs[1], recs[2]
	flipWindowUs := uint64(s.cfg.MdiFlipflopWindowMs * 1000)
	return a.ToPool == c.ToPool && a.ToPool != b.ToPool && c.TUs-a.TUs <= flipWindowUs
}

func (s *State) trimPoolWindow(nowUs uint64) {
	cutoff := uint64(s.cfg.PoolWinMs * 1000)
	s.poolWindow = trimWindow(s.poolWindow, nowUs, cutoff)
}

func (s *State) trimMdiWindow(nowUs uint64) {
	cutoff := uint64(s.cfg.MdiWinMs * 1000)
	s.mdiWindow = trimWindow(s.mdiWindow, nowUs, cutoff)
}

func trimWindow(window []poolRecord, nowUs, spanUs uint64) []poolRecord {
	if spanUs >= nowUs {
		return window
	}
	floor := nowUs - spanUs
	i := 0
	for i < len(window) && window[i].TUs < floor {
		i++
	}
	if i == 0 {
		return window
	}
	return append([]poolRecord(nil), window[i:]...)
}

func wrapSigned(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg >= 180 {
		deg -= 360
	} else if deg < -180 {
		deg += 360
	}
	return deg
}

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
