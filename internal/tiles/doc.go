// Package tiles implements TilesState: a time-bucketed aggregator that
// boot-learns its tile duration from the median cycle dt, then emits one
// Tile per fixed-duration window of cycles from both sensors (§4.D).
package tiles
