package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildFrame(t *testing.T, pt PacketType, ver uint8, payload []byte) []byte {
	t.Helper()
	frame := make([]byte, 0, MinFrameSize+len(payload))
	frame = append(frame, Sync)
	frame = append(frame, byte(pt)<<4|ver&0x0F)
	frame = append(frame, byte(len(payload)))
	frame = append(frame, payload...)
	crc := CRC16(frame[1:])
	frame = append(frame, byte(crc), byte(crc>>8))
	return frame
}

func TestDecoder_SingleValidFrame(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	raw := buildFrame(t, PacketEvent24, 0, payload)

	d := NewDecoder()
	frames := d.PushBytes(raw)
	require.Len(t, frames, 1)
	require.Equal(t, PacketEvent24, frames[0].Type)
	require.Equal(t, payload, frames[0].Payload)
	require.Zero(t, d.CRCErrors())
}

func TestDecoder_TwoFramesBackToBack(t *testing.T) {
	a := buildFrame(t, PacketEvent16, 0, []byte{9, 9})
	b := buildFrame(t, PacketEvent24, 0, []byte{1, 2, 3})

	d := NewDecoder()
	frames := d.PushBytes(append(a, b...))
	require.Len(t, frames, 2)
	require.Equal(t, PacketEvent16, frames[0].Type)
	require.Equal(t, PacketEvent24, frames[1].Type)
}

func TestDecoder_CRCCorruptionResyncs(t *testing.T) {
	// S2: valid frame A, a junk frame that starts with SYNC but fails CRC,
	// then a valid frame B. Expect A and B emitted, corrupted candidate
	// silently skipped.
	a := buildFrame(t, PacketEvent24, 0, []byte{1, 2, 3, 4})
	b := buildFrame(t, PacketEvent24, 0, []byte{5, 6, 7, 8})

	junk := buildFrame(t, PacketEvent16, 0, []byte{0xAA, 0xBB})
	junk[len(junk)-1] ^= 0xFF // flip the CRC's high byte so it fails validation

	stream := append(append(append([]byte{}, a...), junk...), b...)

	d := NewDecoder()
	frames := d.PushBytes(stream)
	require.Len(t, frames, 2)
	require.Equal(t, []byte{1, 2, 3, 4}, frames[0].Payload)
	require.Equal(t, []byte{5, 6, 7, 8}, frames[1].Payload)
	require.Equal(t, uint64(1), d.CRCErrors())
}

func TestDecoder_LeadingGarbageBeforeSync(t *testing.T) {
	a := buildFrame(t, PacketEvent24, 0, []byte{1, 2, 3, 4})
	stream := append([]byte{0x00, 0x11, 0x22}, a...)

	d := NewDecoder()
	frames := d.PushBytes(stream)
	require.Len(t, frames, 1)
	require.Equal(t, uint64(1), d.Resyncs())
}

func TestDecoder_IncompleteFrameWaitsForMoreBytes(t *testing.T) {
	a := buildFrame(t, PacketEvent24, 0, []byte{1, 2, 3, 4})

	d := NewDecoder()
	frames := d.PushBytes(a[:len(a)-2])
	require.Empty(t, frames)

	frames = d.PushBytes(a[len(a)-2:])
	require.Len(t, frames, 1)
}

func TestDecoder_RoundTripPreservesPayload(t *testing.T) {
	// Property 1/8: serialize -> frame -> decode yields the original payload.
	payloads := [][]byte{
		{},
		{0x01},
		make([]byte, 255),
	}
	for _, p := range payloads {
		raw := buildFrame(t, PacketEvent24, 0, p)
		d := NewDecoder()
		frames := d.PushBytes(raw)
		require.Len(t, frames, 1)
		require.Equal(t, p, frames[0].Payload)
	}
}

func TestCRC16_KnownVector(t *testing.T) {
	// CRC-CCITT-FALSE of "123456789" is 0x29B1 (well-known test vector).
	got := CRC16([]byte("123456789"))
	require.Equal(t, uint16(0x29B1), got)
}
