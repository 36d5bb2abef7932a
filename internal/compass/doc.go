// Package compass implements InertialCompass: an EMA over each tile's
// up/down cycle imbalance, with hysteretic direction latching (§4.E).
package compass
