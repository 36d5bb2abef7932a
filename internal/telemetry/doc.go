// Package telemetry is the Store component (§4.K): a durable, queryable
// SQLite record of decoded cycles, tiles, and gate decisions, for
// offline inspection. It is not on the core's correctness path — a
// telemetry write failure is logged and swallowed, never propagated
// back into the pipeline (§5, §7), mirroring the teacher's
// internal/db pattern of a thin *sql.DB wrapper plus golang-migrate
// schema management.
package telemetry
