// Package governor watches free-heap pressure and prunes the swarm pools
// before the process runs out of memory, mirroring the watermark/prune
// pattern the teacher's scheduler loop uses for channel-hop backpressure
// but applied to heap bytes instead of packet counters.
package governor

import "github.com/emperornerd/GhostWalk/internal/swarm"

// Thresholds, in free bytes, mirrored from §4.7.
const (
	LowMemoryThreshold      = 25000
	CriticalMemoryThreshold = 15000
)

// DormantDropFraction / ActiveDropFraction are the proportions of each
// pool evicted from the front when a threshold is crossed.
const (
	DormantDropFraction = 0.30
	ActiveDropFraction  = 0.15
)

// Governor tracks the low-memory latch across ticks.
type Governor struct {
	LowMemory bool

	// AcceptLearnedSSIDs reflects the most recent Tick's verdict on
	// whether the SSID store should accept newly learned names; it
	// latches false below CriticalMemoryThreshold (§4.7's learning
	// throttle) until free memory recovers.
	AcceptLearnedSSIDs bool
}

// New returns a governor starting in the normal-memory state, accepting
// learned SSIDs by default.
func New() *Governor {
	return &Governor{AcceptLearnedSSIDs: true}
}

// Tick observes the current free-heap estimate and prunes pools[...] in
// place per §4.7. It returns whether low-memory mode is active after this
// tick, and whether new learned SSIDs should currently be accepted.
func (g *Governor) Tick(freeBytes int, pools *swarm.Pools) (lowMemory, acceptLearnedSSIDs bool) {
	if freeBytes < LowMemoryThreshold {
		g.LowMemory = true
		pools.DropDormantFront(int(float64(len(pools.Dormant)) * DormantDropFraction))
	}

	acceptLearnedSSIDs = true
	if freeBytes < CriticalMemoryThreshold {
		pools.DropActiveFront(int(float64(len(pools.Active)) * ActiveDropFraction))
		acceptLearnedSSIDs = false
	}

	if freeBytes >= LowMemoryThreshold {
		g.LowMemory = false
	}

	g.AcceptLearnedSSIDs = acceptLearnedSSIDs
	return g.LowMemory, acceptLearnedSSIDs
}
