package cycles

import "github.com/hallgate/hallgated/internal/events"

// Sensor identifies which hall channel a cycle or sample belongs to.
type Sensor uint8

const (
	SensorA Sensor = 0
	SensorB Sensor = 1
)

// CycleType classifies the pool ordering a completed 3-point window took.
type CycleType string

const (
	CycleUp    CycleType = "up"    // [N, NEU, S]
	CycleDown  CycleType = "down"  // [S, NEU, N]
	CycleMixed CycleType = "mixed" // any other ordering of {NEU, N, S}
)

// Cycle is one emitted ordered three-pool transition (§3).
type Cycle struct {
	Sensor     Sensor
	CycleType  CycleType
	TStartUs   uint64
	TEndUs     uint64
	TCenterUs  uint64
	DtUs       uint32
}

// RejectReason is the closed set of detector-level rejects (§4.C, §7).
// Canonicalization-level rejects (NO_*, SENSOR_INVALID, TO_POOL_*) belong
// to package events and never reach CyclesState.
type RejectReason string

const (
	RejectNone           RejectReason = ""
	RejectSamePoolRepeat RejectReason = "SAME_POOL_REPEAT"
	RejectSeqNotMatch    RejectReason = "SEQ_NOT_MATCH"
	RejectDtTooSmall     RejectReason = "DT_TOO_SMALL"
	RejectDtTooLarge     RejectReason = "DT_TOO_LARGE"
	RejectWindowNotReady RejectReason = "WINDOW_NOT_READY"
)

// EventProjection is the small, bounded projection of a CanonicalEvent
// TruthProbe retains for its last-rejecting-event and trace buffer
// entries — not the full event, to keep TruthProbe's footprint bounded.
type EventProjection struct {
	Sensor uint8 // mirrors events.CanonicalEvent.Sensor, pre-mapping
	ToPool events.Pool
	TAbsUs uint64
	Reason RejectReason
}

func mapSensor(s uint8) Sensor {
	if s == 1 {
		return SensorB
	}
	return SensorA
}
