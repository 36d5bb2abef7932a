package tiles

import "github.com/hallgate/hallgated/internal/cycles"

// EmissionMode selects how TilesState handles cycles that skip more than
// one tile index ahead of the currently open tile (§9 Open Question 1).
type EmissionMode int

const (
	// EmissionDense inserts empty tiles to keep the tile_index axis
	// dense, which keeps downstream RPM math stable across gaps. This
	// is the default and the recommendation in §9.
	EmissionDense EmissionMode = iota
	// EmissionSparseJump flushes only the currently open tile and jumps
	// the running tile index straight to the new one, leaving gaps in
	// the index axis. Kept as a config toggle for parity with the v1.9
	// source behavior (§9 Open Question 1).
	EmissionSparseJump
)

// CycleSample is the raw per-cycle record a Tile retains for its sensor
// bucket.
type CycleSample struct {
	TCenterUs uint64
	CycleType cycles.CycleType
	DtUs      uint32
}

// Tile is one fixed-duration time bucket of cycles from both sensors (§3).
type Tile struct {
	TileIndex       uint64
	TStartUs        uint64
	TEndUs          uint64
	TCenterUs       uint64
	NA, NB          int
	CyclesPhysical  float64
	SamplesA        []CycleSample
	SamplesB        []CycleSample
}
