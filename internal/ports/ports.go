// Package ports declares the external interfaces this system consumes but
// does not implement: the radio driver, clock, PRNG, display surface, and
// serial console. Interface segregation here mirrors the teacher's
// core/ports package, narrowed to exactly the operations §6 requires.
package ports

import "time"

// SecondaryChannel identifies a secondary 40 MHz channel offset, or none.
type SecondaryChannel int

const SecondaryChannelNone SecondaryChannel = 0

// FrameType is the coarse RX classification the driver reports alongside
// a captured payload.
type FrameType int

const (
	FrameMgmt FrameType = iota
	FrameCtl
	FrameData
)

// RxMetadata accompanies a promiscuous-mode RX callback invocation.
type RxMetadata struct {
	SigLen int
	Type   FrameType
}

// RxCallback is the function signature the driver invokes per received
// frame; it must return quickly and must not allocate or block.
type RxCallback func(payload []byte, meta RxMetadata)

// RadioDriver is the minimal hardware/channel contract this system needs:
// channel control, TX power control, raw frame transmission, and
// promiscuous RX callback installation.
type RadioDriver interface {
	SetChannel(channel int, secondary SecondaryChannel) error
	SetMaxTXPower(units int) error
	TX80211(iface string, frame []byte, ack bool) error
	SetPromiscuous(enabled bool) error
	SetPromiscuousRxCallback(cb RxCallback) error
}

// Clock is a monotonic millisecond clock, decoupled from wall-clock time
// so tests can drive it deterministically.
type Clock interface {
	NowMillis() int64
	Now() time.Time
}

// PRNG is the seeded random-source contract of the radio environment. The
// simulated radio implements it; the identity, swarm, synth and scheduler
// packages draw from a *rand.Rand passed to them directly.
type PRNG interface {
	Intn(n int) int
	IntRange(a, b int) int
	Float64() float64
}

// DisplaySurface is an optional text-grid status output rendered at at
// most 0.5 Hz.
type DisplaySurface interface {
	FillRect(x, y, w, h int, ch byte)
	PlaceCursor(x, y int)
	WriteText(x, y int, text string)
}

// SerialConsole is a write-only logging sink; no parseable protocol is
// emitted over it.
type SerialConsole interface {
	WriteLine(line string)
}

// HeapStats reports the free-heap estimate the governor watches.
type HeapStats interface {
	FreeBytes() int
}
