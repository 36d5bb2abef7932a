// Package serialport is the Serial collaborator (§4.L): a thin
// go.bug.st/serial adapter that reads raw bytes off a physical port and
// hands them to a caller-supplied sink, typically pipeline.State's
// FeedBytes. Unlike the teacher's internal/serialmux, there is no
// fan-out to multiple subscribers and no background goroutine pool:
// the core's single-threaded cooperative model (§5) has exactly one
// caller driving Run in a loop, matching radar/serial.go's blocking
// read pattern without its channel plumbing.
package serialport
