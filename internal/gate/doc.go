// Package gate implements ActionGate v0.2: the deterministic execution
// state machine (IDLE/OBSERVE/ARMED/ACTIVE/FALLBACK) driven by pipeline
// coherence, lock state, and an externally supplied Action Intent, with
// structured per-tick log output (§4.I).
package gate
