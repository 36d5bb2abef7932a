// Package cycles implements CyclesState: a per-sensor 3-point sliding
// window detector that turns canonical events into Cycle records, plus
// TruthProbe, its self-diagnostic reject/tail/trace surface (§4.C).
package cycles
