package compass

import (
	"testing"

	"github.com/hallgate/hallgated/internal/cycles"
	"github.com/hallgate/hallgated/internal/tiles"
	"github.com/stretchr/testify/require"
)

func tileOf(idx uint64, types ...cycles.CycleType) tiles.Tile {
	t := tiles.Tile{TileIndex: idx}
	for _, ct := range types {
		t.SamplesA = append(t.SamplesA, tiles.CycleSample{CycleType: ct})
		t.NA++
	}
	return t
}

func TestState_EmptyTileLeavesScoreUnchanged(t *testing.T) {
	s := New(DefaultConfig())
	snap := s.Feed(tileOf(0, cycles.CycleUp, cycles.CycleUp))
	require.Greater(t, snap.GlobalScore, 0.0)

	empty := s.Feed(tiles.Tile{TileIndex: 1})
	require.Equal(t, snap.GlobalScore, empty.GlobalScore)
	require.Equal(t, snap.Direction, empty.Direction)
}

func TestState_AllUpLatchesCW(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)

	var last Snapshot
	for i := uint64(0); i < 10; i++ {
		last = s.Feed(tileOf(i, cycles.CycleUp, cycles.CycleUp, cycles.CycleUp))
	}
	require.Equal(t, DirCW, last.Direction)
	require.InDelta(t, 1.0, last.GlobalScore, 1e-9)
	require.InDelta(t, 1.0, last.Conf, 1e-9)
}

func TestState_AllDownLatchesCCW(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)

	var last Snapshot
	for i := uint64(0); i < 10; i++ {
		last = s.Feed(tileOf(i, cycles.CycleDown, cycles.CycleDown))
	}
	require.Equal(t, DirCCW, last.Direction)
}

func TestState_MixedNeverLatches(t *testing.T) {
	s := New(DefaultConfig())

	var last Snapshot
	for i := uint64(0); i < 10; i++ {
		last = s.Feed(tileOf(i, cycles.CycleMixed, cycles.CycleMixed))
	}
	require.Equal(t, DirUndecided, last.Direction)
	require.InDelta(t, 0.0, last.GlobalScore, 1e-9)
}

func TestState_HysteresisRetainsDirectionInBand(t *testing.T) {
	cfg := DefaultConfig() // ThresholdHigh=0.35, ThresholdLow=0.15
	s := New(cfg)

	// Drive score above ThresholdHigh to latch CW.
	var snap Snapshot
	for i := uint64(0); i < 20; i++ {
		snap = s.Feed(tileOf(i, cycles.CycleUp, cycles.CycleUp, cycles.CycleUp))
	}
	require.Equal(t, DirCW, snap.Direction)
	require.Greater(t, snap.GlobalScore, cfg.ThresholdHigh)

	// Feed a single mixed-balance tile that nudges score down into the
	// hysteresis band but not below ThresholdLow; direction must stick.
	snap = s.Feed(tileOf(20, cycles.CycleUp, cycles.CycleDown))
	if snap.GlobalScore >= cfg.ThresholdLow && snap.GlobalScore < cfg.ThresholdHigh {
		require.Equal(t, DirCW, snap.Direction)
	}
}

func TestState_DropBelowThresholdLowResetsToUndecided(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)

	for i := uint64(0); i < 20; i++ {
		s.Feed(tileOf(i, cycles.CycleUp, cycles.CycleUp, cycles.CycleUp))
	}

	var last Snapshot
	for i := uint64(20); i < 40; i++ {
		last = s.Feed(tileOf(i, cycles.CycleMixed))
	}
	require.Equal(t, DirUndecided, last.Direction)
}
