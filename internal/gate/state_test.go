package gate

import (
	"strings"
	"testing"

	"github.com/hallgate/hallgated/internal/movement"
	"github.com/stretchr/testify/require"
)

var forbiddenTokens = []string{"truth", "belief", "desire", "want", "feel", "think", "meaning", "semantic"}

func assertNoForbiddenVocabulary(t *testing.T, logs []LogEntry) {
	t.Helper()
	for _, l := range logs {
		lower := strings.ToLower(l.Event)
		for _, f := range l.Fields {
			lower += " " + strings.ToLower(f.Key) + " " + strings.ToLower(f.Value)
		}
		for _, tok := range forbiddenTokens {
			require.NotContains(t, lower, tok)
		}
	}
}

func TestState_S3_ActivationHappyPath(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)

	out := s.Evaluate(GateInput{NowMs: 100, Coherence: 0.3, Lock: movement.LockUnlocked})
	require.Equal(t, StateObserve, out.State)
	assertNoForbiddenVocabulary(t, out.Logs)

	out = s.Evaluate(GateInput{NowMs: 200, Coherence: 0.5, Lock: movement.LockLocked, ArmSignal: true})
	require.Equal(t, StateArmed, out.State)
	assertNoForbiddenVocabulary(t, out.Logs)

	out = s.Evaluate(GateInput{NowMs: 300, Coherence: 0.8, Lock: movement.LockLocked, ActionIntent: IntentActivate})
	require.Equal(t, StateActive, out.State)
	require.Equal(t, DecisionAllowActive, out.Decision)
	require.True(t, out.Allowed)
	require.True(t, out.IntentAccepted)
	assertNoForbiddenVocabulary(t, out.Logs)
}

func TestState_S4_ReleaseDominance(t *testing.T) {
	s := New(DefaultConfig())
	// Drive to ACTIVE first.
	s.Evaluate(GateInput{NowMs: 0, Coherence: 0.3, Lock: movement.LockUnlocked})
	s.Evaluate(GateInput{NowMs: 1, Coherence: 0.5, Lock: movement.LockLocked, ArmSignal: true})
	s.Evaluate(GateInput{NowMs: 2, Coherence: 0.9, Lock: movement.LockLocked, ActionIntent: IntentActivate})
	require.Equal(t, StateActive, s.State())

	out := s.Evaluate(GateInput{NowMs: 3, Coherence: 0.9, Lock: movement.LockLocked, ActionIntent: IntentRelease})
	require.Equal(t, StateFallback, out.State)
	require.Equal(t, DecisionForceFallback, out.Decision)
	require.False(t, out.Allowed)
}

func TestState_S5_StaleDataFallback(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)
	s.Evaluate(GateInput{NowMs: 0, Coherence: 0.3, Lock: movement.LockUnlocked}) // -> OBSERVE

	out := s.Evaluate(GateInput{NowMs: 1, Coherence: 0.8, Lock: movement.LockLocked, DataAgeMs: cfg.StaleDataThresholdMs + 1})
	require.Equal(t, StateFallback, out.State)
	require.Equal(t, DecisionForceFallback, out.Decision)

	var fallbackLog *LogEntry
	for i := range out.Logs {
		if out.Logs[i].Event == "GATE_FALLBACK" {
			fallbackLog = &out.Logs[i]
		}
	}
	require.NotNil(t, fallbackLog)
	require.Equal(t, "data_stale", fallbackLog.Fields[0].Value)
}

func TestState_RequireIntentForActiveNeverAllowsWithoutIntent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireIntentForActive = true
	s := New(cfg)
	s.Evaluate(GateInput{NowMs: 0, Coherence: 0.3, Lock: movement.LockUnlocked})
	s.Evaluate(GateInput{NowMs: 1, Coherence: 0.5, Lock: movement.LockLocked, ArmSignal: true})

	// INTENT_NONE in ARMED never activates.
	out := s.Evaluate(GateInput{NowMs: 2, Coherence: 0.9, Lock: movement.LockLocked, ActionIntent: IntentNone})
	require.NotEqual(t, StateActive, out.State)
	require.Equal(t, DecisionHoldObserve, out.Decision)
}

func TestState_DecisionIsClosedThreeValueSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireIntentForActive = true
	s := New(cfg)

	out := s.Evaluate(GateInput{NowMs: 0, Coherence: 0.3, Lock: movement.LockUnlocked})
	require.Equal(t, DecisionHoldObserve, out.Decision)
	require.Equal(t, "enter_observe", out.Reason)

	out = s.Evaluate(GateInput{NowMs: 1, Coherence: 0.5, Lock: movement.LockLocked, ArmSignal: true})
	require.Equal(t, DecisionHoldObserve, out.Decision)
	require.Equal(t, "enter_armed", out.Reason)

	out = s.Evaluate(GateInput{NowMs: 2, Coherence: 0.9, Lock: movement.LockLocked, ActionIntent: IntentActivate})
	require.Equal(t, DecisionAllowActive, out.Decision)

	out = s.Evaluate(GateInput{NowMs: 3, Coherence: 0.9, Lock: movement.LockLocked, ActionIntent: IntentNone})
	require.Equal(t, DecisionHoldObserve, out.Decision)
	require.Equal(t, "active_revoked", out.Reason)
	require.Equal(t, StateObserve, out.State)

	out = s.Evaluate(GateInput{NowMs: 4, Coherence: 0.9, Lock: movement.LockLocked, ActionIntent: IntentRelease})
	require.Equal(t, DecisionForceFallback, out.Decision)
}
