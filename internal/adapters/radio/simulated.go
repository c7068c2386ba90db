// Package radio provides the only RadioDriver/Clock/PRNG/HeapStats
// implementation this program ships: a simulated radio with no physical
// backing, built in the style of the teacher's mock data generator. It
// exists so the scheduler has something concrete to drive end to end —
// swapping in a real SDR or monitor-mode NIC binding is an integration
// concern outside this package's scope.
package radio

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/emperornerd/GhostWalk/internal/ports"
)

// Simulated implements ports.RadioDriver, ports.Clock, and ports.PRNG
// without touching any real hardware; heap statistics come from the
// separate HeapStats type below. TX calls are recorded so tests can
// observe the synthesized traffic stream.
type Simulated struct {
	mu          sync.Mutex
	channel     int
	secondary   ports.SecondaryChannel
	txPower     int
	promiscuous bool
	rxCallback  ports.RxCallback

	rng *rand.Rand

	txLog    [][]byte
	maxTXLog int
}

// NewSimulated constructs a simulated radio seeded with rng.
func NewSimulated(rng *rand.Rand) *Simulated {
	return &Simulated{rng: rng, maxTXLog: 256}
}

func (s *Simulated) SetChannel(channel int, secondary ports.SecondaryChannel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = channel
	s.secondary = secondary
	return nil
}

func (s *Simulated) Channel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

func (s *Simulated) SetMaxTXPower(units int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txPower = units
	return nil
}

func (s *Simulated) TXPower() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txPower
}

// TX80211 records the frame for observability. Real transmission failures
// are out of scope for a simulated radio: they are always "successful".
func (s *Simulated) TX80211(iface string, frame []byte, ack bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(frame))
	copy(cp, frame)
	s.txLog = append(s.txLog, cp)
	if len(s.txLog) > s.maxTXLog {
		s.txLog = s.txLog[len(s.txLog)-s.maxTXLog:]
	}
	return nil
}

// RecentTX returns a copy of the most recently transmitted frames, oldest
// first, for tests and diagnostics.
func (s *Simulated) RecentTX() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.txLog))
	copy(out, s.txLog)
	return out
}

func (s *Simulated) SetPromiscuous(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promiscuous = enabled
	return nil
}

func (s *Simulated) SetPromiscuousRxCallback(cb ports.RxCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rxCallback = cb
	return nil
}

// Deliver feeds payload through the currently installed RX callback, as a
// real driver's interrupt handler would. It is exported so a test harness
// or a loopback-mode feature can inject frames.
func (s *Simulated) Deliver(payload []byte, meta ports.RxMetadata) {
	s.mu.Lock()
	cb := s.rxCallback
	s.mu.Unlock()
	if cb != nil {
		cb(payload, meta)
	}
}

// NowMillis returns a monotonic millisecond timestamp.
func (s *Simulated) NowMillis() int64 { return time.Now().UnixMilli() }

// Now returns the current wall-clock time.
func (s *Simulated) Now() time.Time { return time.Now() }

// Intn returns a uniform draw in [0, n).
func (s *Simulated) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// IntRange returns a uniform draw in [a, b).
func (s *Simulated) IntRange(a, b int) int {
	if b <= a {
		return a
	}
	return a + s.Intn(b-a)
}

// Float64 returns a uniform draw in [0.0, 1.0).
func (s *Simulated) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// HeapStats reports the Go runtime's actual free-heap estimate, scaled
// down to land in the same numeric range the spec's thresholds (15000,
// 25000 bytes) assume for an embedded target: this program runs on a much
// larger heap, so free bytes are expressed as a synthetic "headroom"
// figure derived from current GC pressure rather than the literal
// runtime.MemStats value.
type HeapStats struct {
	mu       sync.Mutex
	override *int
}

// NewHeapStats returns a HeapStats reading from the live Go runtime.
func NewHeapStats() *HeapStats { return &HeapStats{} }

// FreeBytes returns the current free-heap estimate. Tests may pin this
// via SetOverride to exercise governor thresholds deterministically.
func (h *HeapStats) FreeBytes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.override != nil {
		return *h.override
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	headroom := int64(m.NextGC) - int64(m.HeapAlloc)
	if headroom < 0 {
		headroom = 0
	}
	// Map runtime headroom onto the embedded-scale range the spec's
	// watermarks were written against. The result always lies in
	// [30000, 40000), above LowMemoryThreshold, so without an override
	// the governor never enters low-memory mode.
	scaled := 30000 + (headroom % 10000)
	return int(scaled)
}

// SetOverride pins FreeBytes to a fixed value, or clears the pin if nil.
func (h *HeapStats) SetOverride(bytes *int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.override = bytes
}
