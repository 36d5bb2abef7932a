package tiles

import (
	"testing"

	"github.com/hallgate/hallgated/internal/cycles"
	"github.com/stretchr/testify/require"
)

func cyc(sensor cycles.Sensor, ct cycles.CycleType, centerUs uint64, dtUs uint32) cycles.Cycle {
	return cycles.Cycle{Sensor: sensor, CycleType: ct, TCenterUs: centerUs, DtUs: dtUs}
}

func TestState_NoTileBeforeBootComplete(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BootCyclesForMedian = 5
	s := New(cfg)

	for i := 0; i < 4; i++ {
		flushed := s.Feed(cyc(cycles.SensorA, cycles.CycleUp, uint64(i)*1000, 1000))
		require.Empty(t, flushed)
		require.False(t, s.Booted())
	}
}

func TestState_BootLearnsDurationFromMedianDt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BootCyclesForMedian = 3
	cfg.TileSpanCycles = 2.0
	s := New(cfg)

	s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 0, 1000))
	s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 1000, 1000))
	s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 2000, 1000))

	require.True(t, s.Booted())
	require.Equal(t, 2000.0, s.TileDurationUs())
}

func TestState_EmitsTileOnIndexChange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BootCyclesForMedian = 2
	cfg.TileSpanCycles = 1.0
	s := New(cfg)

	s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 0, 1000))
	flushed := s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 1000, 1000))
	require.Empty(t, flushed) // boot completes on this cycle; tile_duration=1000, opens tile 0

	// Before t0=1000, so clamped into tile 0 [1000,2000).
	flushed = s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 500, 1000))
	require.Empty(t, flushed)

	// Crosses into tile 1 (tile 0 spans [1000,2000); 2500 falls in tile 1).
	flushed = s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 2500, 1000))
	require.Len(t, flushed, 1)
	require.EqualValues(t, 0, flushed[0].TileIndex)
	require.Equal(t, 2, flushed[0].NA)
}

func TestState_TileIndexStrictlyIncreasing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BootCyclesForMedian = 2
	cfg.TileSpanCycles = 1.0
	s := New(cfg)

	var emitted []Tile
	s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 0, 500))
	emitted = append(emitted, s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 500, 500))...)
	for i := uint64(1); i <= 5; i++ {
		emitted = append(emitted, s.Feed(cyc(cycles.SensorA, cycles.CycleUp, i*500+1000, 500))...)
	}
	if trailing, ok := s.Flush(); ok {
		emitted = append(emitted, trailing)
	}

	for i := 1; i < len(emitted); i++ {
		require.Greater(t, int(emitted[i].TileIndex), int(emitted[i-1].TileIndex))
	}
}

func TestState_DenseEmissionBackfillsEmptyTiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BootCyclesForMedian = 2
	cfg.TileSpanCycles = 1.0
	cfg.Emission = EmissionDense
	s := New(cfg)

	s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 0, 1000))
	s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 1000, 1000)) // boots, duration=1000, opens tile0

	// Jump far ahead: lands in tile 5, skipping tiles 1-4.
	flushed := s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 6000, 1000))
	require.Len(t, flushed, 5) // tile0 (real) + tiles1-4 (empty)
	require.EqualValues(t, 0, flushed[0].TileIndex)
	for i := 1; i < 5; i++ {
		require.EqualValues(t, i, flushed[i].TileIndex)
		require.Equal(t, 0, flushed[i].NA)
		require.Equal(t, 0.0, flushed[i].CyclesPhysical)
	}
}

func TestState_FlushEmitsTrailingOpenTile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BootCyclesForMedian = 2
	cfg.TileSpanCycles = 1.0
	s := New(cfg)

	s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 0, 1000))
	s.Feed(cyc(cycles.SensorA, cycles.CycleUp, 1000, 1000))

	tile, ok := s.Flush()
	require.True(t, ok)
	require.Equal(t, 1, tile.NA) // only the boot-completing cycle is bucketed

	_, ok = s.Flush()
	require.False(t, ok)
}
