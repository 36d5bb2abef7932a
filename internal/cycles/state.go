package cycles

import "github.com/hallgate/hallgated/internal/events"

type sample struct {
	tUs    uint64
	toPool events.Pool
}

// window is a fixed-capacity 3-slot sliding window over one sensor's
// recent to_pool samples (§4.C, §5 "bounded memory").
type window struct {
	slots [3]sample
	n     int
}

func (w *window) last() (sample, bool) {
	if w.n == 0 {
		return sample{}, false
	}
	return w.slots[w.n-1], true
}

func (w *window) push(s sample) {
	if w.n < 3 {
		w.slots[w.n] = s
		w.n++
		return
	}
	w.slots[0] = w.slots[1]
	w.slots[1] = w.slots[2]
	w.slots[2] = s
}

// State is CyclesState: the per-sensor 3-point window detector. It has no
// global time and no locking — callers feed events serially (§4.C, §5).
type State struct {
	cfg     Config
	windows [2]window
	probe   *TruthProbe
}

// New constructs a State with the given config. cfg is validated; an
// invalid config panics at construction, matching the rest of the core's
// policy of validating once up front rather than on every tick (§7).
func New(cfg Config) *State {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &State{
		cfg:   cfg,
		probe: newTruthProbe(cfg.TraceArmAfterEvents),
	}
}

// TruthProbe exposes the detector's self-diagnostic surface. It is a
// debug projection only — correctness of Feed never depends on callers
// reading it (§4.J).
func (s *State) TruthProbe() *TruthProbe { return s.probe }

// Feed processes one canonical event and returns the Cycle it completed,
// if any, and the reject reason otherwise. It never panics (§7).
func (s *State) Feed(ev events.CanonicalEvent) (Cycle, RejectReason) {
	sensor := mapSensor(ev.Sensor)
	w := &s.windows[sensor]

	s.probe.recordEvent(sensor, ev.ToPool)

	if last, ok := w.last(); ok && last.toPool == ev.ToPool {
		reason := RejectSamePoolRepeat
		s.probe.recordReject(s.projection(ev, reason))
		return Cycle{}, reason
	}

	w.push(sample{tUs: ev.TAbsUs, toPool: ev.ToPool})

	if w.n < 3 {
		reason := RejectWindowNotReady
		s.probe.recordReject(s.projection(ev, reason))
		return Cycle{}, reason
	}

	p0, p1, p2 := w.slots[0], w.slots[1], w.slots[2]
	if !isCompleteSet(p0.toPool, p1.toPool, p2.toPool) {
		reason := RejectSeqNotMatch
		s.probe.recordReject(s.projection(ev, reason))
		return Cycle{}, reason
	}

	dt := p2.tUs - p0.tUs
	if dt < uint64(s.cfg.DtMinUs) {
		reason := RejectDtTooSmall
		s.probe.recordReject(s.projection(ev, reason))
		return Cycle{}, reason
	}
	if dt > uint64(s.cfg.DtMaxUs) {
		reason := RejectDtTooLarge
		s.probe.recordReject(s.projection(ev, reason))
		return Cycle{}, reason
	}

	c := Cycle{
		Sensor:    sensor,
		CycleType: classify(p0.toPool, p1.toPool, p2.toPool),
		TStartUs:  p0.tUs,
		TEndUs:    p2.tUs,
		TCenterUs: (p0.tUs + p2.tUs) / 2,
		DtUs:      uint32(dt),
	}
	s.probe.recordCycle()
	return c, RejectNone
}

func (s *State) projection(ev events.CanonicalEvent, reason RejectReason) EventProjection {
	return EventProjection{
		Sensor: ev.Sensor,
		ToPool: ev.ToPool,
		TAbsUs: ev.TAbsUs,
		Reason: reason,
	}
}

func isCompleteSet(a, b, c events.Pool) bool {
	return a != b && b != c && a != c &&
		(a == events.PoolNEU || b == events.PoolNEU || c == events.PoolNEU) &&
		(a == events.PoolN || b == events.PoolN || c == events.PoolN) &&
		(a == events.PoolS || b == events.PoolS || c == events.PoolS)
}

func classify(a, b, c events.Pool) CycleType {
	switch {
	case a == events.PoolN && b == events.PoolNEU && c == events.PoolS:
		return CycleUp
	case a == events.PoolS && b == events.PoolNEU && c == events.PoolN:
		return CycleDown
	default:
		return CycleMixed
	}
}
