// Package gateconfig holds the named configuration profiles
// (production, bench, bench_tolerant) that parameterize every pipeline
// stage, plus a sidecar key/value overlay mechanism. cycles_per_rot is
// centralized here as a single field and propagated by construction into
// every sub-config that needs it, rather than configured in multiple
// places (§4.F, §4.G, §9 note 3).
package gateconfig
