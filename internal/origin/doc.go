// Package origin implements OriginTracker: the micro-displacement
// detector (MDI modes A/B/C) and the origin candidate/commit two-phase
// acceptance logic feeding the five-level awareness state machine (§4.H).
package origin
