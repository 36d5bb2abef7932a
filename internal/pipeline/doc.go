// Package pipeline composes the wire, events, cycles, tiles, compass, and
// movement stages into one façade, and feeds their outputs onward to
// PhysicalActivity, OriginTracker, and ActionGate. It is the single
// owner of every sub-component's state (§4.J).
package pipeline
