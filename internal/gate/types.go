package gate

import "github.com/hallgate/hallgated/internal/movement"

// GateState is ActionGate's execution state (§4.I).
type GateState string

const (
	StateIdle     GateState = "IDLE"
	StateObserve  GateState = "OBSERVE"
	StateArmed    GateState = "ARMED"
	StateActive   GateState = "ACTIVE"
	StateFallback GateState = "FALLBACK"
)

// ActionIntent is the closed set of externally supplied per-tick
// permission signals (§4.I).
type ActionIntent string

const (
	IntentNone     ActionIntent = "INTENT_NONE"
	IntentActivate ActionIntent = "INTENT_ACTIVATE"
	IntentHold     ActionIntent = "INTENT_HOLD"
	IntentRelease  ActionIntent = "INTENT_RELEASE"
)

// Decision is the closed set of decision tokens ActionGate logs and
// returns alongside each evaluation (§4.I, §3 Data Model). Finer-grained
// detail that doesn't fit this set (which transition fired, why a hold
// continues) travels in GateOutput.Reason instead.
type Decision string

const (
	DecisionAllowActive   Decision = "ALLOW_ACTIVE"
	DecisionHoldObserve   Decision = "HOLD_OBSERVE"
	DecisionForceFallback Decision = "FORCE_FALLBACK"
)

// GateInput is one tick's drive for ActionGate (§4.I, §6).
type GateInput struct {
	NowMs         uint64
	Coherence     float64
	Lock          movement.LockState
	DataAgeMs     float64
	ActionIntent  ActionIntent
	IntentSource  string
	ArmSignal     bool
	ForceFallback bool
}

// Field is one key=value token in a structured log entry.
type Field struct {
	Key   string
	Value string
}

// LogEntry is one structured log line ActionGate emits per evaluation
// (§6). Fields are ordered for deterministic rendering and contain no
// semantic vocabulary.
type LogEntry struct {
	Event  string
	Fields []Field
}

// GateOutput is ActionGate's result for one tick (§4.I). Reason carries
// the breadcrumb for which transition produced Decision, since Decision
// itself is only the closed three-value set.
type GateOutput struct {
	State          GateState
	Decision       Decision
	Reason         string
	Allowed        bool
	IntentAccepted bool
	Logs           []LogEntry
}
