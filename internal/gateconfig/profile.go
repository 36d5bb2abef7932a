package gateconfig

import (
	"github.com/hallgate/hallgated/internal/activity"
	"github.com/hallgate/hallgated/internal/compass"
	"github.com/hallgate/hallgated/internal/cycles"
	"github.com/hallgate/hallgated/internal/gate"
	"github.com/hallgate/hallgated/internal/movement"
	"github.com/hallgate/hallgated/internal/origin"
	"github.com/hallgate/hallgated/internal/tiles"
)

// Profile bundles every pipeline stage's configuration under one named
// profile. CyclesPerRot is authoritative: Build propagates it into
// Movement and Activity regardless of what those sub-configs carry,
// so the value only ever needs to be set in one place.
type Profile struct {
	Name         string
	CyclesPerRot float64

	Cycles   cycles.Config
	Tiles    tiles.Config
	Compass  compass.Config
	Movement movement.Config
	Activity activity.Config
	Origin   origin.Config
	Gate     gate.Config
}

// Production returns the default, tightly-tuned profile for the real
// sensor deployment.
func Production() Profile {
	return Profile{
		Name:         "production",
		CyclesPerRot: 24.0,
		Cycles:       cycles.DefaultConfig(),
		Tiles:        tiles.DefaultConfig(),
		Compass:      compass.DefaultConfig(),
		Movement:     movement.DefaultConfig(),
		Activity:     activity.DefaultConfig(),
		Origin:       origin.DefaultConfig(),
		Gate:         gate.DefaultConfig(),
	}
}

// Bench returns a profile tuned for bench-top testing against a jig:
// faster boot, shorter windows, a smaller rotor.
func Bench() Profile {
	p := Production()
	p.Name = "bench"
	p.CyclesPerRot = 12.0
	p.Cycles.DtMinUs = 200
	p.Tiles.BootCyclesForMedian = 4
	p.Tiles.TileSpanCycles = 1.0
	p.Movement.LockCyclesMin = 2
	p.Movement.LockPromoteCycles = 2
	p.Origin.StopGapS = 1.5
	return p
}

// BenchTolerant widens bench timing tolerances further, for noisy bench
// rigs or hand-actuated test fixtures.
func BenchTolerant() Profile {
	p := Bench()
	p.Name = "bench_tolerant"
	p.Cycles.DtMinUs = 50
	p.Cycles.DtMaxUs = p.Cycles.DtMaxUs * 4
	p.Movement.RpmMoveThresh = 0.2
	p.Gate.ArmCoherenceMin = 0.2
	p.Gate.ActivationCoherenceMin = 0.4
	return p
}

// Build propagates CyclesPerRot into the sub-configs that use it
// (Movement and Activity) and returns the resulting bundle. It does not
// validate the bundle.
func (p Profile) Build() Profile {
	p.Movement.CyclesPerRot = p.CyclesPerRot
	p.Activity.CyclesPerRot = p.CyclesPerRot
	return p
}
