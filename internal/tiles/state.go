package tiles

import (
	"sort"

	"github.com/hallgate/hallgated/internal/cycles"
	"gonum.org/v1/gonum/stat"
)

// State is TilesState: the time-bucketed aggregator. It has two phases —
// boot (collecting dt samples to learn the tile duration) and steady
// state (bucketing cycles into fixed-duration tiles) — and never blocks
// on either (§4.D, §5).
type State struct {
	cfg Config

	bootSamples []float64 // dt_us samples collected during boot
	booted      bool
	tileDuration float64 // microseconds, set once booted

	t0          uint64
	haveT0      bool
	openIndex   uint64
	haveOpen    bool
	open        Tile
}

// New constructs a State with the given config.
func New(cfg Config) *State {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &State{cfg: cfg}
}

// Booted reports whether the tile duration has been learned. No tiles
// are emitted before this is true (§4.D "Until then, tiles cannot be
// emitted.").
func (s *State) Booted() bool { return s.booted }

// TileDurationUs returns the learned tile duration in microseconds, or 0
// if boot has not completed.
func (s *State) TileDurationUs() float64 { return s.tileDuration }

// Feed processes one emitted Cycle and returns any Tiles it caused to be
// flushed (normally zero or one; more when EmissionDense backfills empty
// tiles across a gap). The cycle that completes boot opens the first tile
// and flushes nothing; earlier boot cycles only supply dt samples and are
// not bucketed.
func (s *State) Feed(c cycles.Cycle) []Tile {
	if !s.booted {
		s.bootSamples = append(s.bootSamples, float64(c.DtUs))
		if len(s.bootSamples) < s.cfg.BootCyclesForMedian {
			return nil
		}
		sorted := append([]float64(nil), s.bootSamples...)
		sort.Float64s(sorted)
		median := stat.Quantile(0.5, stat.LinInterp, sorted, nil)
		s.tileDuration = median * s.cfg.TileSpanCycles
		s.booted = true
		s.t0 = c.TCenterUs
		s.haveT0 = true
	}

	idx := s.tileIndexFor(c.TCenterUs)

	var flushed []Tile
	if !s.haveOpen {
		s.openTile(idx)
	} else if idx != s.openIndex {
		flushed = append(flushed, s.closeOpen())
		if s.cfg.Emission == EmissionDense && idx > s.openIndex+1 {
			for gap := s.openIndex + 1; gap < idx; gap++ {
				flushed = append(flushed, s.emptyTile(gap))
			}
		}
		s.openTile(idx)
	}

	s.appendSample(c)
	return flushed
}

// Flush emits the trailing open tile at EOF, if one exists.
func (s *State) Flush() (Tile, bool) {
	if !s.haveOpen {
		return Tile{}, false
	}
	return s.closeOpen(), true
}

func (s *State) tileIndexFor(tUs uint64) uint64 {
	if tUs < s.t0 {
		return 0
	}
	return uint64(float64(tUs-s.t0) / s.tileDuration)
}

func (s *State) tileBoundsFor(idx uint64) (start, end uint64) {
	start = s.t0 + uint64(float64(idx)*s.tileDuration)
	end = s.t0 + uint64(float64(idx+1)*s.tileDuration)
	return
}

// openTile opens the tile at idx. Bounds come purely from the fixed
// t0 + idx*tileDuration grid established at boot (§4.D) — there is no
// per-tile anchor to a cycle's own center.
func (s *State) openTile(idx uint64) {
	start, end := s.tileBoundsFor(idx)
	s.open = Tile{
		TileIndex: idx,
		TStartUs:  start,
		TEndUs:    end,
		TCenterUs: (start + end) / 2,
	}
	s.openIndex = idx
	s.haveOpen = true
}

func (s *State) emptyTile(idx uint64) Tile {
	start, end := s.tileBoundsFor(idx)
	return Tile{
		TileIndex:      idx,
		TStartUs:       start,
		TEndUs:         end,
		TCenterUs:      (start + end) / 2,
		CyclesPhysical: 0,
	}
}

func (s *State) closeOpen() Tile {
	t := s.open
	t.CyclesPhysical = 0.5 * float64(t.NA+t.NB)
	s.haveOpen = false
	return t
}

func (s *State) appendSample(c cycles.Cycle) {
	sample := CycleSample{TCenterUs: c.TCenterUs, CycleType: c.CycleType, DtUs: c.DtUs}
	switch c.Sensor {
	case cycles.SensorA:
		s.open.SamplesA = append(s.open.SamplesA, sample)
		s.open.NA++
	case cycles.SensorB:
		s.open.SamplesB = append(s.open.SamplesB, sample)
		s.open.NB++
	}
}
