// Package movement implements MovementBody: rotation/angle accumulation,
// EMA RPM estimation, and the hierarchical rotor/lock state machine that
// turns Compass snapshots into a directional-confidence ladder (§4.F).
package movement
