package scheduler

import (
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/emperornerd/GhostWalk/internal/adapters/radio"
	"github.com/emperornerd/GhostWalk/internal/governor"
	"github.com/emperornerd/GhostWalk/internal/mesh"
	"github.com/emperornerd/GhostWalk/internal/sniffer"
	"github.com/emperornerd/GhostWalk/internal/ssidstore"
	"github.com/emperornerd/GhostWalk/internal/swarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScheduler(t *testing.T, activeSize int) (*Scheduler, *radio.Simulated) {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	store := ssidstore.New(ssidstore.MaxLearned)
	pools := swarm.NewPools(activeSize, activeSize*2, rng, store)
	pools.Initialize(func() bool { return true })
	relay := mesh.NewRelay([6]byte{1, 2, 3, 4, 5, 6})
	gov := governor.New()
	sim := radio.NewSimulated(rng)

	cfg := DefaultConfig()
	cfg.PacketsPerHopMin = 2
	cfg.PacketsPerHopMax = 4
	cfg.HopMin = time.Millisecond
	cfg.HopMax = 2 * time.Millisecond
	cfg.LifecycleMin = time.Millisecond
	cfg.LifecycleMax = 2 * time.Millisecond

	s := New(cfg, pools, store, relay, gov, sim, radio.NewHeapStats(), rng, [6]byte{1, 2, 3, 4, 5, 6})
	return s, sim
}

func TestTick_TransmitsFrames(t *testing.T) {
	s, sim := buildScheduler(t, 50)
	now := time.Now()
	for i := 0; i < 5; i++ {
		s.Tick(now)
		now = now.Add(10 * time.Millisecond)
	}
	assert.NotEmpty(t, sim.RecentTX())
	assert.Greater(t, s.Stats.TXCount, int64(0))
}

func TestHopTickIfDue_AlternatesBands(t *testing.T) {
	s, _ := buildScheduler(t, 50)
	now := time.Now()
	s.hopTickIfDue(now)
	firstBand := s.is5ghz
	s.hopTickIfDue(now.Add(10 * time.Millisecond))
	secondBand := s.is5ghz
	assert.NotEqual(t, firstBand, secondBand)
}

func TestHopTickIfDue_SkipsLegacyDeviceOn5GHz(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	store := ssidstore.New(ssidstore.MaxLearned)
	pools := swarm.NewPools(0, 0, rng, store)
	pools.Active = []*swarm.Device{{
		MAC:        net.HardwareAddr{0x18, 0xFE, 0x34, 0x01, 0x02, 0x03},
		Generation: swarm.Legacy,
		Platform:   swarm.PlatformOther,
		TXPower:    swarm.MinTXPower,
	}}
	relay := mesh.NewRelay([6]byte{})
	gov := governor.New()
	sim := radio.NewSimulated(rng)
	cfg := DefaultConfig()
	cfg.PacketsPerHopMin, cfg.PacketsPerHopMax = 5, 6
	cfg.HopMin, cfg.HopMax = time.Millisecond, 2*time.Millisecond

	s := New(cfg, pools, store, relay, gov, sim, radio.NewHeapStats(), rng, [6]byte{})
	// Force the next hop onto the 5 GHz band by priming is5ghz so the
	// alternation flips to true.
	s.is5ghz = false
	s.hopTickIfDue(time.Now())

	for _, frame := range sim.RecentTX() {
		if len(frame) < 16 {
			continue
		}
		srcMAC := net.HardwareAddr(frame[10:16])
		assert.NotEqual(t, net.HardwareAddr{0x18, 0xFE, 0x34, 0x01, 0x02, 0x03}, srcMAC,
			"legacy device must never transmit while scheduler is on 5 GHz")
	}
}

func TestLifecycleTickIfDue_RotatesWithinRange(t *testing.T) {
	s, _ := buildScheduler(t, 100)
	before := len(s.Pools.Active)
	now := time.Now()
	s.lifecycleTickIfDue(now)
	assert.Equal(t, before, len(s.Pools.Active), "rotation should preserve active size outside low memory")
}

func TestMeshTick_DecaysWithoutPanicking(t *testing.T) {
	s, _ := buildScheduler(t, 10)
	now := time.Now()
	require.NotPanics(t, func() { s.meshTick(now) })
}

func TestDrainLearnedSSIDs_ThrottlesUnderCriticalMemory(t *testing.T) {
	s, _ := buildScheduler(t, 10)
	before := s.Store.Count()

	s.Gov.AcceptLearnedSSIDs = false
	s.ssidQueue <- sniffer.LearnedSSID{Name: "ShouldBeDropped"}
	s.drainLearnedSSIDs(time.Now())

	assert.Equal(t, before, s.Store.Count(), "learned SSIDs must not be admitted while throttled")
	assert.False(t, s.Store.Contains("ShouldBeDropped"))
}

func TestSequenceGap_WithinSpecSet(t *testing.T) {
	s, _ := buildScheduler(t, 10)
	seen := map[uint16]bool{}
	for i := 0; i < 500; i++ {
		seen[s.sequenceGap()] = true
	}
	for k := range seen {
		assert.True(t, k == 1 || (k >= 2 && k <= 7))
	}
}
