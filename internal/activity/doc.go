// Package activity implements L1 PhysicalActivity: a five-state
// tactile/kinematic classifier with reason codes, decaying activity score,
// decaying encoder confidence, and a virtual angle θ̂ (§4.G).
package activity
