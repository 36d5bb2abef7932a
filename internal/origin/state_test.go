package origin

import (
	"testing"

	"github.com/hallgate/hallgated/internal/events"
	"github.com/stretchr/testify/require"
)

func TestState_ModeCLatchThenDrop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeC
	s := New(cfg)

	s.RecordEvent(events.PoolNEU, 0, 0) // baseline; not itself a change
	s.RecordEvent(events.PoolN, 0, 100) // the one pool change that latches

	snap := s.Update(Tick{NowUs: 100, ActivityScore: 0.6})
	require.True(t, snap.MDILatched)
	require.Equal(t, ReasonMDILatch, snap.Reason)
	require.Equal(t, 1.0, snap.MDIMicroAcc)

	dropUs := uint64(100 + (cfg.MdiLatchDropS+0.05)*1e6)
	snap = s.Update(Tick{NowUs: dropUs, ActivityScore: 0.6})
	require.False(t, snap.MDILatched)
	require.Equal(t, ReasonMDILatchDropped, snap.Reason)
	require.Equal(t, 0.5, snap.MDIMicroAcc)
}

func TestState_AwarenessStaysStillWithNoActivity(t *testing.T) {
	s := New(DefaultConfig())
	snap := s.Update(Tick{NowUs: 0, ActivityScore: 0})
	require.Equal(t, AwarenessStill, snap.Awareness)
}

func TestState_AwarenessAdvancesToNoiseOnActivity(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)
	snap := s.Update(Tick{NowUs: 0, ActivityScore: cfg.NoiseActivityMin + 0.1})
	require.Equal(t, AwarenessNoise, snap.Awareness)
}

func TestState_HardGapResetsMDIAndOrigin(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)

	s.RecordEvent(events.PoolNEU, 0, 0)
	s.RecordEvent(events.PoolN, 0, 100)
	s.Update(Tick{NowUs: 100, ActivityScore: 0.6})
	require.True(t, s.latchSet)

	gapUs := uint64(100 + (cfg.StopGapS+0.1)*1e6)
	snap := s.Update(Tick{NowUs: gapUs, ActivityScore: 0.0})
	require.Equal(t, ReasonHardGapReset, snap.Reason)
	require.False(t, snap.MDILatched)
	require.Equal(t, 0.0, snap.MDIMicroAcc)
}
