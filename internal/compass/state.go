package compass

import (
	"github.com/hallgate/hallgated/internal/cycles"
	"github.com/hallgate/hallgated/internal/tiles"
)

// State is InertialCompass: an EMA over each tile's up/down imbalance,
// with hysteretic direction latching (§4.E).
type State struct {
	cfg Config

	haveScore bool
	score     float64
	direction Direction
}

// New constructs a State with the given config.
func New(cfg Config) *State {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &State{cfg: cfg}
}

// Feed processes one Tile and returns the resulting Snapshot. Tiles with
// no samples on either sensor leave the score unchanged but still report
// the current (possibly stale) direction and confidence.
func (s *State) Feed(t tiles.Tile) Snapshot {
	ups, downs, total := countImbalance(t)
	if total > 0 {
		delta := float64(ups-downs) / float64(total)
		if !s.haveScore {
			s.score = delta
			s.haveScore = true
		} else {
			s.score = (1-s.cfg.Alpha)*s.score + s.cfg.Alpha*delta
		}
		s.updateDirection()
	}

	return Snapshot{
		TileIndex:   t.TileIndex,
		GlobalScore: s.score,
		Conf:        absFloat(s.score),
		Direction:   s.direction,
	}
}

func (s *State) updateDirection() {
	abs := absFloat(s.score)
	switch {
	case s.score >= s.cfg.ThresholdHigh:
		s.direction = DirCW
	case s.score <= -s.cfg.ThresholdHigh:
		s.direction = DirCCW
	case abs < s.cfg.ThresholdLow:
		s.direction = DirUndecided
	default:
		// hysteresis band: retain previously latched direction
	}
}

func countImbalance(t tiles.Tile) (ups, downs, total int) {
	for _, samp := range t.SamplesA {
		total++
		switch samp.CycleType {
		case cycles.CycleUp:
			ups++
		case cycles.CycleDown:
			downs++
		}
	}
	for _, samp := range t.SamplesB {
		total++
		switch samp.CycleType {
		case cycles.CycleUp:
			ups++
		case cycles.CycleDown:
			downs++
		}
	}
	return
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
