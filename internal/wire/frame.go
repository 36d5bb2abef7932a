package wire

// Frame wire constants. Fixed prefix: one SYNC byte, one TYPE/VER byte
// (upper nibble packet type, lower nibble version), one length byte,
// N payload bytes, two CRC16 bytes (little-endian).
const (
	Sync byte = 0xA5

	// HeaderSize is SYNC + TYPE_VER + LEN, before the payload.
	HeaderSize = 3
	// CRCSize is the trailing CRC16 field width.
	CRCSize = 2
	// MinFrameSize is the smallest possible frame: header + CRC, zero payload.
	MinFrameSize = HeaderSize + CRCSize
)

// PacketType is the closed set of packet types carried in the upper
// nibble of the TYPE/VER byte.
type PacketType uint8

const (
	PacketEvent16     PacketType = 0x0
	PacketEvent24     PacketType = 0x1
	PacketSummary16   PacketType = 0x2
	PacketSummary24   PacketType = 0x3
	PacketFilterStats PacketType = 0x4
	PacketLinkStats   PacketType = 0x5
	PacketImpulseTest PacketType = 0x6
)

// String renders a PacketType for logs and diagnostics.
func (t PacketType) String() string {
	switch t {
	case PacketEvent16:
		return "EVENT16"
	case PacketEvent24:
		return "EVENT24"
	case PacketSummary16:
		return "SUMMARY16"
	case PacketSummary24:
		return "SUMMARY24"
	case PacketFilterStats:
		return "FILTER_STATS"
	case PacketLinkStats:
		return "LINK_STATS"
	case PacketImpulseTest:
		return "IMPULSE_TEST"
	default:
		return "UNKNOWN"
	}
}

// Frame is a single decoded (type, ver, payload) triple emitted by the
// Decoder after CRC validation.
type Frame struct {
	Type    PacketType
	Ver     uint8
	Payload []byte
}

// splitTypeVer unpacks the TYPE_VER byte into (type, ver).
func splitTypeVer(b byte) (PacketType, uint8) {
	return PacketType(b >> 4), b & 0x0F
}
