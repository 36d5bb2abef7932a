// Package events canonicalizes decoded wire frames (EVENT16/EVENT24) into
// CanonicalEvent values: closed enums for sensor/pool/packet kind, decoded
// bitfields, and typed reject reasons. Canonicalization never panics;
// malformed input always resolves to a typed reject reason and a named
// counter increment (§4.B, §7).
package events
