package cycles

import "github.com/hallgate/hallgated/internal/events"

const (
	tailBufferCapacity  = 6
	traceBufferCapacity = 30
)

// TruthProbe is CyclesState's self-diagnostic surface: reject histograms,
// bounded tail buffers per sensor, and a bounded trace of rejecting
// events that arms only while the detector is producing nothing (§4.C,
// §7). It carries no correctness-affecting state — callers may ignore it
// entirely.
type TruthProbe struct {
	eventsTotal uint64
	cyclesTotal uint64

	rejectCounts  map[RejectReason]uint64
	lastReason    RejectReason
	lastReject    EventProjection
	hasLastReject bool

	tail [2][]events.Pool // per-sensor ring of recent to_pool values, oldest first

	trace    []EventProjection
	armed    bool
	armAfter uint64
}

func newTruthProbe(armAfter uint64) *TruthProbe {
	return &TruthProbe{
		rejectCounts: make(map[RejectReason]uint64),
		armAfter:     armAfter,
	}
}

func (p *TruthProbe) recordEvent(sensor Sensor, toPool events.Pool) {
	p.eventsTotal++
	idx := int(sensor)
	p.tail[idx] = append(p.tail[idx], toPool)
	if len(p.tail[idx]) > tailBufferCapacity {
		p.tail[idx] = p.tail[idx][len(p.tail[idx])-tailBufferCapacity:]
	}
}

func (p *TruthProbe) recordReject(proj EventProjection) {
	p.rejectCounts[proj.Reason]++
	p.lastReason = proj.Reason
	p.lastReject = proj
	p.hasLastReject = true

	if p.armed {
		p.trace = append(p.trace, proj)
		if len(p.trace) > traceBufferCapacity {
			p.trace = p.trace[len(p.trace)-traceBufferCapacity:]
		}
	} else if p.armAfter > 0 && p.eventsTotal >= p.armAfter && p.cyclesTotal == 0 {
		p.armed = true
		p.trace = append(p.trace, proj)
	}
}

func (p *TruthProbe) recordCycle() {
	p.cyclesTotal++
	if p.armed {
		// First successful emission disarms the trace: the breadcrumb
		// trail's job (diagnosing a dead sensor) is done.
		p.armed = false
		p.trace = nil
	}
}

// EventsTotal returns the number of events CyclesState has observed.
func (p *TruthProbe) EventsTotal() uint64 { return p.eventsTotal }

// CyclesTotal returns the number of cycles CyclesState has emitted.
func (p *TruthProbe) CyclesTotal() uint64 { return p.cyclesTotal }

// RejectCount returns how many times reason was recorded.
func (p *TruthProbe) RejectCount(reason RejectReason) uint64 { return p.rejectCounts[reason] }

// LastReason returns the most recently recorded reject reason, or
// RejectNone if nothing has been rejected yet.
func (p *TruthProbe) LastReason() RejectReason { return p.lastReason }

// LastReject returns the projection of the last rejecting event and
// whether one has been recorded yet.
func (p *TruthProbe) LastReject() (EventProjection, bool) { return p.lastReject, p.hasLastReject }

// Tail returns a copy of sensor's bounded tail buffer of recent to_pool
// values, oldest first.
func (p *TruthProbe) Tail(sensor Sensor) []events.Pool {
	src := p.tail[int(sensor)]
	out := make([]events.Pool, len(src))
	copy(out, src)
	return out
}

// Trace returns a copy of the current breadcrumb trace buffer. It is
// empty unless the trace is currently armed: the first emitted cycle
// disarms the trace and clears the buffer.
func (p *TruthProbe) Trace() []EventProjection {
	out := make([]EventProjection, len(p.trace))
	copy(out, p.trace)
	return out
}

// Armed reports whether the trace buffer is currently recording.
func (p *TruthProbe) Armed() bool { return p.armed }
