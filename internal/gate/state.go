package gate

import (
	"strconv"

	"github.com/hallgate/hallgated/internal/movement"
)

// State is ActionGate.
type State struct {
	cfg   Config
	state GateState
}

// New constructs a State in IDLE with the given config.
func New(cfg Config) *State {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &State{cfg: cfg, state: StateIdle}
}

// State returns the gate's current GateState.
func (s *State) State() GateState { return s.state }

// Evaluate advances the gate by one tick, in the strict order mandated
// by §4.I: log ACTION_INTENT, log GATE_BASIS, check fallback dominance,
// evaluate the current state's transition, then log GATE_ENTER (on
// change) and GATE_DECISION.
func (s *State) Evaluate(in GateInput) GateOutput {
	var logs []LogEntry
	logs = append(logs, actionIntentLog(in))
	logs = append(logs, gateBasisLog(in))

	prevState := s.state
	var decision Decision
	var allowed, intentAccepted bool
	reason := ""

	if dominant, why := s.fallbackReason(in); dominant {
		s.state = StateFallback
		decision = DecisionForceFallback
		allowed = false
		intentAccepted = false
		reason = why
		logs = append(logs, LogEntry{Event: "GATE_FALLBACK", Fields: []Field{
			{Key: "reason", Value: why},
		}})
	} else {
		decision, allowed, intentAccepted, reason = s.transition(in)
	}

	if s.state != prevState {
		logs = append(logs, LogEntry{Event: "GATE_ENTER", Fields: []Field{
			{Key: "from", Value: string(prevState)},
			{Key: "to", Value: string(s.state)},
		}})
	}

	decisionFields := []Field{
		{Key: "state", Value: string(s.state)},
		{Key: "decision", Value: string(decision)},
		{Key: "allowed", Value: strconv.FormatBool(allowed)},
		{Key: "intent", Value: string(in.ActionIntent)},
		{Key: "intent_accepted", Value: strconv.FormatBool(intentAccepted)},
	}
	if reason != "" {
		decisionFields = append(decisionFields, Field{Key: "reason", Value: reason})
	}
	logs = append(logs, LogEntry{Event: "GATE_DECISION", Fields: decisionFields})

	return GateOutput{
		State:          s.state,
		Decision:       decision,
		Reason:         reason,
		Allowed:        allowed,
		IntentAccepted: intentAccepted,
		Logs:           logs,
	}
}

func (s *State) fallbackReason(in GateInput) (bool, string) {
	switch {
	case in.ActionIntent == IntentRelease:
		return true, "intent_release"
	case in.ForceFallback:
		return true, "force_fallback"
	case in.DataAgeMs > s.cfg.StaleDataThresholdMs:
		return true, "data_stale"
	case in.Coherence < 0.1:
		return true, "low_coherence"
	default:
		return false, ""
	}
}

// transition evaluates the current state's rules and returns the closed
// decision token alongside a reason breadcrumb identifying which rule
// fired (§3 Data Model, §4.I). Every non-ACTIVE outcome collapses to
// DecisionHoldObserve; reason carries the finer-grained detail the v0.2
// reference logs separately from decision.
func (s *State) transition(in GateInput) (Decision, bool, bool, string) {
	switch s.state {
	case StateIdle:
		s.state = StateObserve
		return DecisionHoldObserve, false, false, "enter_observe"

	case StateObserve:
		armConditions := in.Coherence >= s.cfg.ArmCoherenceMin &&
			in.Lock != movement.LockUnlocked &&
			(in.ArmSignal || (in.Lock == movement.LockLocked && in.Coherence >= 0.5))
		if armConditions {
			s.state = StateArmed
			return DecisionHoldObserve, false, false, "enter_armed"
		}
		return DecisionHoldObserve, false, false, ""

	case StateArmed:
		armConditions := in.Coherence >= s.cfg.ArmCoherenceMin &&
			in.Lock != movement.LockUnlocked &&
			(in.ArmSignal || (in.Lock == movement.LockLocked && in.Coherence >= 0.5))
		if !armConditions {
			s.state = StateObserve
			return DecisionHoldObserve, false, false, "lock_lost"
		}
		activationConditions := in.Coherence >= s.cfg.ActivationCoherenceMin && in.Lock == movement.LockLocked
		if activationConditions && in.ActionIntent == IntentActivate {
			s.state = StateActive
			return DecisionAllowActive, true, true, ""
		}
		return DecisionHoldObserve, false, false, ""

	case StateActive:
		if in.Coherence < s.cfg.CoherenceThreshold || in.Lock == movement.LockUnlocked {
			s.state = StateObserve
			return DecisionHoldObserve, false, false, "lock_lost"
		}
		switch in.ActionIntent {
		case IntentHold:
			return DecisionAllowActive, true, true, ""
		case IntentNone:
			if s.cfg.RequireIntentForActive {
				s.state = StateObserve
				return DecisionHoldObserve, false, false, "active_revoked"
			}
			return DecisionAllowActive, true, false, ""
		default:
			return DecisionAllowActive, true, true, ""
		}

	case StateFallback:
		if in.Coherence >= s.cfg.CoherenceThreshold {
			s.state = StateIdle
			return DecisionHoldObserve, false, false, "recovered"
		}
		return DecisionHoldObserve, false, false, ""
	}
	return DecisionHoldObserve, false, false, ""
}

func actionIntentLog(in GateInput) LogEntry {
	return LogEntry{Event: "ACTION_INTENT", Fields: []Field{
		{Key: "intent", Value: string(in.ActionIntent)},
		{Key: "intent_source", Value: in.IntentSource},
	}}
}

func gateBasisLog(in GateInput) LogEntry {
	return LogEntry{Event: "GATE_BASIS", Fields: []Field{
		{Key: "coherence", Value: strconv.FormatFloat(in.Coherence, 'f', 4, 64)},
		{Key: "lock", Value: in.Lock.String()},
		{Key: "data_age_ms", Value: strconv.FormatFloat(in.DataAgeMs, 'f', 2, 64)},
	}}
}
