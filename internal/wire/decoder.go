package wire

// Decoder is a SYNC-aligned, CRC16-guarded frame assembler. It is a pull
// iterator over an internal byte buffer: PushBytes appends a chunk and
// drains as many complete, CRC-valid frames as the buffer holds. It is
// not safe for concurrent use — callers feed it serially (§5).
type Decoder struct {
	buf       []byte
	crcErrors uint64
	resyncs   uint64
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// CRCErrors returns the number of frames discarded for CRC mismatch.
func (d *Decoder) CRCErrors() uint64 { return d.crcErrors }

// Resyncs returns the number of times SYNC loss forced a buffer realignment.
func (d *Decoder) Resyncs() uint64 { return d.resyncs }

// PushBytes appends chunk to the internal buffer and drains every complete
// frame it can assemble, in order. CRC-invalid candidate frames are
// discarded individually; draining continues past them (§4.A).
func (d *Decoder) PushBytes(chunk []byte) []Frame {
	d.buf = append(d.buf, chunk...)
	var out []Frame
	for {
		f, emitted, progressed := d.drainOne()
		if !progressed {
			break
		}
		if emitted {
			out = append(out, f)
		}
	}
	return out
}

// drainOne attempts to extract and validate a single frame from the head
// of the buffer. progressed is false when no further progress is possible
// (buffer too short for the next decision); emitted is true only when a
// CRC-valid frame was produced. A CRC-invalid candidate is consumed
// (progressed=true, emitted=false) so draining continues past it (§4.A).
func (d *Decoder) drainOne() (frame Frame, emitted bool, progressed bool) {
	// Scan for SYNC; drop any leading bytes before it (resync).
	if k := indexSync(d.buf); k > 0 {
		d.buf = d.buf[k:]
		d.resyncs++
	} else if k < 0 {
		// No SYNC anywhere in the buffer: drop everything but keep scanning
		// future chunks from empty.
		if len(d.buf) > 0 {
			d.resyncs++
		}
		d.buf = nil
		return Frame{}, false, false
	}

	if len(d.buf) < HeaderSize+1 {
		return Frame{}, false, false
	}

	length := int(d.buf[2])
	total := HeaderSize + length + CRCSize
	if len(d.buf) < total {
		return Frame{}, false, false
	}

	candidate := d.buf[:total]
	typeVer := candidate[1]
	payload := candidate[HeaderSize : HeaderSize+length]
	crcRegion := candidate[1 : HeaderSize+length]
	gotCRC := uint16(candidate[total-2]) | uint16(candidate[total-1])<<8
	wantCRC := CRC16(crcRegion)

	// Consume the candidate frame regardless of CRC outcome: a bad CRC
	// only loses this one frame, not the whole buffer.
	d.buf = d.buf[total:]

	if gotCRC != wantCRC {
		d.crcErrors++
		return Frame{}, false, true
	}

	pt, ver := splitTypeVer(typeVer)
	payloadCopy := make([]byte, len(payload))
	copy(payloadCopy, payload)

	return Frame{Type: pt, Ver: ver, Payload: payloadCopy}, true, true
}

// indexSync returns the offset of the first SYNC byte in buf, 0 if buf
// already starts with SYNC, or -1 if SYNC does not appear at all.
func indexSync(buf []byte) int {
	for i, b := range buf {
		if b == Sync {
			return i
		}
	}
	return -1
}
