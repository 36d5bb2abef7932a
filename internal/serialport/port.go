package serialport

import (
	"context"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Config holds the serial line parameters. Defaults match the
// teacher's radar/serial.go settings.
type Config struct {
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
}

// DefaultConfig returns the production line settings.
func DefaultConfig() Config {
	return Config{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

func (c Config) mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   c.Parity,
		StopBits: c.StopBits,
	}
}

// Port wraps an open serial port and tracks basic read diagnostics: a
// debug snapshot analogous to the teacher's admin routes, but as a
// plain struct accessor rather than a served HTTP page (§9).
type Port struct {
	serial.Port
	readCalls uint64
	bytesRead uint64
	readErrs  uint64
}

// Open opens the named serial port with the given line configuration.
func Open(name string, cfg Config) (*Port, error) {
	p, err := serial.Open(name, cfg.mode())
	if err != nil {
		return nil, fmt.Errorf("serialport: open %q: %w", name, err)
	}
	return &Port{Port: p}, nil
}

// Stats is a point-in-time debug snapshot of this port's read activity.
type Stats struct {
	ReadCalls uint64
	BytesRead uint64
	ReadErrs  uint64
}

// Stats returns the current read diagnostics. It is an observability
// accessor only; nothing in Run's correctness depends on callers
// reading it.
func (p *Port) Stats() Stats {
	return Stats{ReadCalls: p.readCalls, BytesRead: p.bytesRead, ReadErrs: p.readErrs}
}

// Run reads from the port in a blocking loop, handing each chunk read to
// onBytes, until ctx is cancelled or a read returns an error. Cancellation
// and io.EOF return nil; any other read error is returned wrapped. The
// context is checked between reads only. There is no internal goroutine or channel: the caller's own
// loop is the single thread driving both the read and onBytes (§5).
func (p *Port) Run(ctx context.Context, onBytes func([]byte)) error {
	buf := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		n, err := p.Port.Read(buf)
		p.readCalls++
		if n > 0 {
			p.bytesRead += uint64(n)
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			onBytes(chunk)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			p.readErrs++
			return fmt.Errorf("serialport: read: %w", err)
		}
	}
}

// Close closes the underlying port.
func (p *Port) Close() error {
	return p.Port.Close()
}
