package events

import (
	"encoding/binary"

	"github.com/hallgate/hallgated/internal/wire"
)

// Exact wire payload sizes (§6).
const (
	event24PayloadSize = 17
	event16PayloadSize = 10
)

// Canonicalizer decodes EVENT16/EVENT24 payloads into CanonicalEvent
// values. It is otherwise stateless except for one running microsecond
// clock: EVENT16 carries no absolute timestamp field, so the canonicalizer
// accumulates one by summing each event's dt_us, giving downstream
// components (cycles, tiles) the same monotonic t_abs_us axis EVENT24
// provides natively. This mirrors TilesState's own running accumulator
// during boot (§4.D) — it is the one piece of state a canonicalizer is
// allowed to carry.
type Canonicalizer struct {
	runningAbsUs uint64
	Counters     Counters
}

// NewCanonicalizer returns a Canonicalizer with its running clock at zero.
func NewCanonicalizer() *Canonicalizer {
	return &Canonicalizer{}
}

// Canonicalize decodes a single frame payload. On success it returns the
// CanonicalEvent and RejectNone; on any decode failure it returns the
// zero CanonicalEvent and a typed RejectReason. It never panics.
func (c *Canonicalizer) Canonicalize(pt wire.PacketType, payload []byte) (CanonicalEvent, RejectReason) {
	var ev CanonicalEvent
	var reason RejectReason

	switch pt {
	case wire.PacketEvent24:
		ev, reason = c.decodeEvent24(payload)
	case wire.PacketEvent16:
		ev, reason = c.decodeEvent16(payload)
	default:
		reason = RejectNoEventKind
	}

	c.Counters.Record(reason)
	return ev, reason
}

func decodeFlags(flags0, flags1 byte) (sensor uint8, fromPool, toPool Pool, f Flags) {
	sensor = (flags0 >> 3) & 0x1
	f.Pair = flags0&0x80 != 0
	f.QLevel = QLevel((flags0 >> 5) & 0x3)
	f.Polarity = Polarity((flags0 >> 4) & 0x1)

	fromPool = Pool((flags1 >> 6) & 0x3)
	toPool = Pool((flags1 >> 4) & 0x3)
	f.DirHint = DirHint((flags1 >> 2) & 0x3)
	f.EdgeKind = EdgeKind(flags1 & 0x3)
	return
}

func (c *Canonicalizer) decodeEvent24(payload []byte) (CanonicalEvent, RejectReason) {
	if len(payload) < 7 {
		// Can't even reach flags0 (needs dt_us[2] + t_abs_us[4] + flags0[1]).
		return CanonicalEvent{}, RejectNoSensor
	}
	if len(payload) < event24PayloadSize {
		// Have flags0 but not a full EVENT24 payload; rejected before to_pool is decoded.
		return CanonicalEvent{}, RejectNoToPool
	}

	dtUs := binary.LittleEndian.Uint16(payload[0:2])
	tAbsUs := binary.LittleEndian.Uint32(payload[2:6])
	flags0 := payload[6]
	flags1 := payload[7]
	sensor, fromPoolRaw, toPoolRaw, flags := decodeFlags(flags0, flags1)

	if sensor != 0 && sensor != 1 {
		// Unreachable given a single bit field; retained for taxonomy
		// parity with non-binary ingest paths that might feed this type.
		return CanonicalEvent{}, RejectSensorInvalid
	}

	if toPoolRaw == poolReserved {
		return CanonicalEvent{}, RejectToPoolOutOfRange
	}

	ev := CanonicalEvent{
		Kind:      KindEvent24,
		Sensor:    sensor,
		ToPool:    toPoolRaw,
		TAbsUs:    uint64(tAbsUs),
		DtUs:      uint32(dtUs),
		Flags:     flags,
		DvdtQ15:   int16(binary.LittleEndian.Uint16(payload[8:10])),
		MonoQ8:    payload[10],
		SnrQ8:     payload[11],
		FitErrQ8:  payload[12],
		HasFitErr: true,
		RpmHintQ:  binary.LittleEndian.Uint16(payload[13:15]),
		HasRpm:    true,
		ScoreQ8:   payload[15],
		Seq:       payload[16],
	}
	if fromPoolRaw != poolReserved {
		ev.FromPool = OptionalPool{Pool: fromPoolRaw, Set: true}
	}

	c.runningAbsUs = ev.TAbsUs
	return ev, RejectNone
}

func (c *Canonicalizer) decodeEvent16(payload []byte) (CanonicalEvent, RejectReason) {
	if len(payload) < 3 {
		// Can't reach flags0 (needs dt_us[2] + flags0[1]).
		return CanonicalEvent{}, RejectNoSensor
	}
	if len(payload) < event16PayloadSize {
		return CanonicalEvent{}, RejectNoToPool
	}

	dtUs := binary.LittleEndian.Uint16(payload[0:2])
	flags0 := payload[2]
	flags1 := payload[3]
	sensor, fromPoolRaw, toPoolRaw, flags := decodeFlags(flags0, flags1)

	if sensor != 0 && sensor != 1 {
		return CanonicalEvent{}, RejectSensorInvalid
	}
	if toPoolRaw == poolReserved {
		return CanonicalEvent{}, RejectToPoolOutOfRange
	}

	c.runningAbsUs += uint64(dtUs)

	ev := CanonicalEvent{
		Kind:     KindEvent16,
		Sensor:   sensor,
		ToPool:   toPoolRaw,
		TAbsUs:   c.runningAbsUs,
		DtUs:     uint32(dtUs),
		Flags:    flags,
		DvdtQ15:  int16(binary.LittleEndian.Uint16(payload[4:6])),
		MonoQ8:   payload[6],
		SnrQ8:    payload[7],
		ScoreQ8:  payload[8],
		Seq:      payload[9],
	}
	if fromPoolRaw != poolReserved {
		ev.FromPool = OptionalPool{Pool: fromPoolRaw, Set: true}
	}

	return ev, RejectNone
}
