package gateconfig

import (
	"fmt"
	"strconv"
)

// Overlay applies a sidecar key/value map on top of a named profile,
// returning the modified profile. Unrecognized keys are reported as
// errors rather than silently ignored, matching the core's policy of
// validating configuration once at construction (§6, §7).
func Overlay(base Profile, kv map[string]string) (Profile, error) {
	p := base
	for key, raw := range kv {
		if err := applyOne(&p, key, raw); err != nil {
			return Profile{}, fmt.Errorf("gateconfig: overlay key %q: %w", key, err)
		}
	}
	return p, nil
}

func applyOne(p *Profile, key, raw string) error {
	switch key {
	case "cycles_per_rot":
		return setFloat(&p.CyclesPerRot, raw)
	case "dt_min_us":
		return setUint32(&p.Cycles.DtMinUs, raw)
	case "dt_max_us":
		return setUint32(&p.Cycles.DtMaxUs, raw)
	case "tile_span_cycles":
		return setFloat(&p.Tiles.TileSpanCycles, raw)
	case "compass_alpha":
		return setFloat(&p.Compass.Alpha, raw)
	case "compass_threshold_high":
		return setFloat(&p.Compass.ThresholdHigh, raw)
	case "compass_threshold_low":
		return setFloat(&p.Compass.ThresholdLow, raw)
	case "rpm_move_thresh":
		return setFloat(&p.Movement.RpmMoveThresh, raw)
	case "lock_confidence_threshold":
		return setFloat(&p.Movement.LockWindowMin, raw)
	case "hard_reset_s":
		return setFloat(&p.Activity.HardResetS, raw)
	case "gap_ms":
		return setFloat(&p.Activity.GapMs, raw)
	case "a0":
		return setFloat(&p.Activity.A0, raw)
	case "a1":
		return setFloat(&p.Activity.A1, raw)
	case "d0":
		return setFloat(&p.Activity.D0, raw)
	case "c0":
		return setFloat(&p.Activity.C0, raw)
	case "mdi_win_ms":
		return setFloat(&p.Origin.MdiWinMs, raw)
	case "pool_win_ms":
		return setFloat(&p.Origin.PoolWinMs, raw)
	case "mdi_latch_confirm_s":
		return setFloat(&p.Origin.MdiLatchConfirmS, raw)
	case "mdi_latch_drop_s":
		return setFloat(&p.Origin.MdiLatchDropS, raw)
	case "origin_commit_horizon_s":
		return setFloat(&p.Origin.OriginCommitHorizonS, raw)
	case "origin_step_deg":
		return setFloat(&p.Origin.OriginStepDeg, raw)
	case "stop_gap_s":
		return setFloat(&p.Origin.StopGapS, raw)
	case "coherence_threshold":
		return setFloat(&p.Gate.CoherenceThreshold, raw)
	case "arm_coherence_min":
		return setFloat(&p.Gate.ArmCoherenceMin, raw)
	case "activation_coherence_min":
		return setFloat(&p.Gate.ActivationCoherenceMin, raw)
	case "stale_data_threshold_ms":
		return setFloat(&p.Gate.StaleDataThresholdMs, raw)
	case "require_intent_for_active":
		return setBool(&p.Gate.RequireIntentForActive, raw)
	default:
		return fmt.Errorf("unrecognized option")
	}
}

func setFloat(dst *float64, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setUint32(dst *uint32, raw string) error {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return err
	}
	*dst = uint32(v)
	return nil
}

func setBool(dst *bool, raw string) error {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
