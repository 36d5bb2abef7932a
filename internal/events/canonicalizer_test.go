package events

import (
	"encoding/binary"
	"testing"

	"github.com/hallgate/hallgated/internal/wire"
	"github.com/stretchr/testify/require"
)

func event24Payload(t *testing.T, dtUs uint16, tAbsUs uint32, sensor uint8, fromPool, toPool Pool) []byte {
	t.Helper()
	p := make([]byte, 17)
	binary.LittleEndian.PutUint16(p[0:2], dtUs)
	binary.LittleEndian.PutUint32(p[2:6], tAbsUs)
	p[6] = (sensor & 1) << 3
	p[7] = byte(fromPool&0x3)<<6 | byte(toPool&0x3)<<4
	binary.LittleEndian.PutUint16(p[8:10], 0)
	p[16] = 7 // seq
	return p
}

func TestCanonicalize_Event24_Accept(t *testing.T) {
	c := NewCanonicalizer()
	p := event24Payload(t, 1000, 2000, 0, PoolN, PoolS)
	ev, reason := c.Canonicalize(wire.PacketEvent24, p)
	require.Equal(t, RejectNone, reason)
	require.Equal(t, KindEvent24, ev.Kind)
	require.Equal(t, uint8(0), ev.Sensor)
	require.Equal(t, PoolS, ev.ToPool)
	require.True(t, ev.FromPool.Set)
	require.Equal(t, PoolN, ev.FromPool.Pool)
	require.Equal(t, uint64(2000), ev.TAbsUs)
	require.Equal(t, uint32(1000), ev.DtUs)
	require.Equal(t, uint8(7), ev.Seq)
}

func TestCanonicalize_Event24_ToPoolReservedRejected(t *testing.T) {
	c := NewCanonicalizer()
	p := event24Payload(t, 1, 1, 0, PoolN, poolReserved)
	_, reason := c.Canonicalize(wire.PacketEvent24, p)
	require.Equal(t, RejectToPoolOutOfRange, reason)
}

func TestCanonicalize_Event24_TruncatedPayloadRejected(t *testing.T) {
	c := NewCanonicalizer()
	_, reason := c.Canonicalize(wire.PacketEvent24, []byte{1, 2})
	require.Equal(t, RejectNoSensor, reason)

	_, reason = c.Canonicalize(wire.PacketEvent24, make([]byte, 10))
	require.Equal(t, RejectNoToPool, reason)
}

func TestCanonicalize_UnknownPacketType(t *testing.T) {
	c := NewCanonicalizer()
	_, reason := c.Canonicalize(wire.PacketSummary16, []byte{1})
	require.Equal(t, RejectNoEventKind, reason)
}

func TestCanonicalize_Event16_AccumulatesRunningClock(t *testing.T) {
	c := NewCanonicalizer()
	p1 := make([]byte, 10)
	binary.LittleEndian.PutUint16(p1[0:2], 500)
	p1[2] = 0
	p1[3] = byte(PoolN) << 4

	p2 := make([]byte, 10)
	binary.LittleEndian.PutUint16(p2[0:2], 700)
	p2[2] = 0
	p2[3] = byte(PoolS) << 4

	ev1, reason1 := c.Canonicalize(wire.PacketEvent16, p1)
	require.Equal(t, RejectNone, reason1)
	require.Equal(t, uint64(500), ev1.TAbsUs)

	ev2, reason2 := c.Canonicalize(wire.PacketEvent16, p2)
	require.Equal(t, RejectNone, reason2)
	require.Equal(t, uint64(1200), ev2.TAbsUs)
}

func TestCounters_TrackTotalsAndReasons(t *testing.T) {
	c := NewCanonicalizer()
	_, _ = c.Canonicalize(wire.PacketEvent24, event24Payload(t, 1, 1, 0, PoolN, PoolS))
	_, _ = c.Canonicalize(wire.PacketEvent24, event24Payload(t, 1, 1, 0, PoolN, poolReserved))
	_, _ = c.Canonicalize(wire.PacketSummary16, nil)

	require.EqualValues(t, 3, c.Counters.Total())
	require.EqualValues(t, 1, c.Counters.Accepted())
	require.EqualValues(t, 1, c.Counters.Count(RejectToPoolOutOfRange))
	require.EqualValues(t, 1, c.Counters.Count(RejectNoEventKind))
}
