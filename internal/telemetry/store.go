package telemetry

import (
	"github.com/hallgate/hallgated/internal/compass"
	"github.com/hallgate/hallgated/internal/cycles"
	"github.com/hallgate/hallgated/internal/events"
	"github.com/hallgate/hallgated/internal/gate"
	"github.com/hallgate/hallgated/internal/monitoring"
	"github.com/hallgate/hallgated/internal/movement"
	"github.com/hallgate/hallgated/internal/tiles"
)

// Store persists decoded core output for offline inspection. Every
// Record* method is best-effort: a write failure is logged and
// swallowed rather than returned, since the core's correctness never
// depends on telemetry succeeding (§5, §7).
type Store struct {
	db        *DB
	sessionID string
}

// NewStore binds a Store to an open DB and the session identifier
// stamped on every row (§4.N).
func NewStore(db *DB, sessionID string) *Store {
	return &Store{db: db, sessionID: sessionID}
}

// RecordCycle persists one emitted Cycle.
func (s *Store) RecordCycle(c cycles.Cycle) {
	_, err := s.db.Exec(
		`INSERT INTO cycles (session_id, sensor, cycle_type, t_start_us, t_end_us, t_center_us, dt_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.sessionID, int(c.Sensor), string(c.CycleType), c.TStartUs, c.TEndUs, c.TCenterUs, c.DtUs,
	)
	if err != nil {
		monitoring.Logf("telemetry: record cycle: %v", err)
	}
}

// RecordTile persists one emitted Tile along with the compass/movement
// snapshots it produced, for a single denormalized queryable row.
func (s *Store) RecordTile(t tiles.Tile, comp compass.Snapshot, mv movement.Snapshot) {
	_, err := s.db.Exec(
		`INSERT INTO tiles (session_id, tile_index, t_start_us, t_end_us, na, nb, cycles_physical,
		                     compass_score, compass_conf, compass_direction,
		                     movement_rotor, movement_lock, movement_rpm_est)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.sessionID, t.TileIndex, t.TStartUs, t.TEndUs, t.NA, t.NB, t.CyclesPhysical,
		comp.GlobalScore, comp.Conf, comp.Direction.String(),
		mv.Rotor.String(), mv.Lock.String(), mv.RpmEst,
	)
	if err != nil {
		monitoring.Logf("telemetry: record tile: %v", err)
	}
}

// RecordGateDecision persists one ActionGate evaluation result.
func (s *Store) RecordGateDecision(nowMs uint64, out gate.GateOutput) {
	_, err := s.db.Exec(
		`INSERT INTO gate_decisions (session_id, now_ms, state, decision, reason, allowed, intent_accepted)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.sessionID, nowMs, string(out.State), string(out.Decision), out.Reason, out.Allowed, out.IntentAccepted,
	)
	if err != nil {
		monitoring.Logf("telemetry: record gate decision: %v", err)
	}
}

// RecordRejectCounts upserts the current cumulative reject histogram
// for this session, keyed by canonicalization reject reason.
func (s *Store) RecordRejectCounts(counters *events.Counters) {
	for _, reason := range []events.RejectReason{
		events.RejectNoEventKind,
		events.RejectNoSensor,
		events.RejectSensorInvalid,
		events.RejectNoToPool,
		events.RejectToPoolInvalidType,
		events.RejectToPoolOutOfRange,
	} {
		count := counters.Count(reason)
		if count == 0 {
			continue
		}
		_, err := s.db.Exec(
			`INSERT INTO reject_counts (session_id, reason, count) VALUES (?, ?, ?)
			 ON CONFLICT(session_id, reason) DO UPDATE SET count = excluded.count`,
			s.sessionID, string(reason), count,
		)
		if err != nil {
			monitoring.Logf("telemetry: record reject counts: %v", err)
		}
	}
}
