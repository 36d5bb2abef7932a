// Package wire owns the frame codec: SYNC-aligned, CRC16-guarded framing
// over a raw byte stream from the sensor fleet's serial transport.
//
// Responsibilities: resyncing on SYNC loss, CRC validation, and
// demultiplexing decoded frames by packet type. This layer produces raw
// (type, ver, payload) triples consumed by internal/events.
//
// Dependency rule: wire has no inward dependency on events/cycles/tiles/etc.
package wire
