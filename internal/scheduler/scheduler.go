// Package scheduler drives the interleaved channel-hop loop: it is the
// single main-task driver the concurrency model (§5) describes, reworked
// from the teacher's cooperative channel hopper goroutine into a plain
// Tick-per-call state machine so the caller controls timing explicitly
// instead of hiding it behind an internal ticker.
package scheduler

import (
	"math/rand"
	"time"

	"github.com/emperornerd/GhostWalk/internal/governor"
	"github.com/emperornerd/GhostWalk/internal/mesh"
	"github.com/emperornerd/GhostWalk/internal/ports"
	"github.com/emperornerd/GhostWalk/internal/sniffer"
	"github.com/emperornerd/GhostWalk/internal/ssidstore"
	"github.com/emperornerd/GhostWalk/internal/swarm"
	"github.com/emperornerd/GhostWalk/internal/synth"
)

// Config holds every tunable the state machine consults.
type Config struct {
	Channels24 []int
	Channels5  []int

	LifecycleMin, LifecycleMax time.Duration
	HopMin, HopMax             time.Duration
	PacketsPerHopMin           int
	PacketsPerHopMax           int

	NoiseFillBetweenSlotsMinMs float64
	NoiseFillBetweenSlotsMaxMs float64

	MeshChannel int

	EnablePassiveScan     bool
	EnableSSIDReplication bool
	EnableLifecycleSim    bool
	EnableSequenceGaps    bool
	EnableBeaconEmulation bool
	EnableInteractionSim  bool
	EnableMeshRelay       bool

	RotateMin, RotateMax int
}

// DefaultConfig returns the spec's documented default parameterization.
func DefaultConfig() Config {
	return Config{
		Channels24:                 []int{1, 6, 11, 2, 7, 3, 8, 4, 9, 5, 10},
		Channels5:                  []int{36, 149, 40, 153, 44, 157, 48, 161, 165},
		LifecycleMin:               2000 * time.Millisecond,
		LifecycleMax:               4000 * time.Millisecond,
		HopMin:                     120 * time.Millisecond,
		HopMax:                     300 * time.Millisecond,
		PacketsPerHopMin:           20,
		PacketsPerHopMax:           45,
		NoiseFillBetweenSlotsMinMs: 1.5,
		NoiseFillBetweenSlotsMaxMs: 5,
		MeshChannel:                mesh.Channel,
		EnablePassiveScan:          true,
		EnableSSIDReplication:      true,
		EnableLifecycleSim:         true,
		EnableSequenceGaps:         true,
		EnableBeaconEmulation:      true,
		EnableInteractionSim:       true,
		EnableMeshRelay:            true,
		RotateMin:                  3,
		RotateMax:                  7,
	}
}

// Stats accumulates counters the control/status server and metrics layer
// read back; it is intentionally plain data, not behavior.
type Stats struct {
	TXCount          int64
	InteractionCount int64
	BeaconCount      int64
	MeshRebroadcasts int64
	LastLearnedSSID  string
	HopCount         int64
}

// Scheduler is the main-task driver: it owns the swarm pools, SSID store,
// mesh relay, and resource governor, and is the only writer of any of
// them. The RX-side sniffer filters instead write to the bounded queues
// it drains here.
type Scheduler struct {
	cfg Config

	Pools *swarm.Pools
	Store *ssidstore.Store
	Relay *mesh.Relay
	Gov   *governor.Governor

	Radio ports.RadioDriver
	Heap  ports.HeapStats

	rng *rand.Rand

	ssidQueue sniffer.SSIDQueue
	meshQueue sniffer.MeshQueue

	probeCB func(payload []byte, frameType ports.FrameType)
	meshCB  func(payload []byte, frameType ports.FrameType)

	localMAC [6]byte

	chanIdx24, chanIdx5 int
	is5ghz              bool
	currentChannel      int

	nextLifecycleAt time.Time
	nextHopAt       time.Time
	nextMeshCheckAt time.Time

	Stats Stats

	// Hooks let a caller (e.g. the run log) observe events as they
	// happen without the scheduler depending on anything beyond
	// ports/swarm/ssidstore/mesh/governor. Nil hooks are skipped.
	OnRotation          func(activeLen, dormantLen int)
	OnGovernorLowMemory func()
	OnMeshDecay         func()
	OnMeshRebroadcast   func()
}

// New constructs a scheduler. localMAC is used for mesh self-echo
// suppression only.
func New(cfg Config, pools *swarm.Pools, store *ssidstore.Store, relay *mesh.Relay, gov *governor.Governor,
	radio ports.RadioDriver, heap ports.HeapStats, rng *rand.Rand, localMAC [6]byte) *Scheduler {

	s := &Scheduler{
		cfg:       cfg,
		Pools:     pools,
		Store:     store,
		Relay:     relay,
		Gov:       gov,
		Radio:     radio,
		Heap:      heap,
		rng:       rng,
		ssidQueue: sniffer.NewSSIDQueue(),
		meshQueue: sniffer.NewMeshQueue(),
		localMAC:  localMAC,
	}
	s.probeCB = sniffer.ProbeLearningFilter(s.ssidQueue)
	s.meshCB = sniffer.MeshActionFilter(s.meshQueue)
	if radio != nil && cfg.EnablePassiveScan {
		radio.SetPromiscuous(true)
		radio.SetPromiscuousRxCallback(func(payload []byte, meta ports.RxMetadata) {
			s.probeCB(payload, meta.Type)
		})
	}
	return s
}

// drainLearnedSSIDs implements §4.6 step 1.
func (s *Scheduler) drainLearnedSSIDs(now time.Time) {
	if !s.cfg.EnableSSIDReplication {
		for len(s.ssidQueue) > 0 {
			<-s.ssidQueue
		}
		return
	}
	for {
		select {
		case rec := <-s.ssidQueue:
			if !s.Gov.AcceptLearnedSSIDs {
				continue
			}
			s.Store.Offer(rec.Name, now)
			s.Stats.LastLearnedSSID = rec.Name
		default:
			return
		}
	}
}

// governorTick implements §4.6 step 2 / §4.7.
func (s *Scheduler) governorTick() {
	wasLow := s.Gov.LowMemory
	s.Gov.Tick(s.Heap.FreeBytes(), s.Pools)
	if s.Gov.LowMemory && !wasLow && s.OnGovernorLowMemory != nil {
		s.OnGovernorLowMemory()
	}
}

// meshTick implements §4.6 step 3 / §4.8: decay/prune every call, and runs
// a full listen window when due.
func (s *Scheduler) meshTick(now time.Time) {
	if !s.cfg.EnableMeshRelay {
		return
	}
	wasDetected := s.Relay.MeshDetected
	s.Relay.DecayTick(now)
	if wasDetected && !s.Relay.MeshDetected && s.OnMeshDecay != nil {
		s.OnMeshDecay()
	}

	if s.nextMeshCheckAt.IsZero() {
		s.nextMeshCheckAt = now
	}
	if now.Before(s.nextMeshCheckAt) {
		return
	}

	s.runMeshListenWindow(now)
	s.nextMeshCheckAt = now.Add(s.Relay.NextInterval())
}

// runMeshListenWindow swaps the RX callback to the mesh filter, switches
// to the mesh channel, drains whatever arrives, then restores state.
func (s *Scheduler) runMeshListenWindow(now time.Time) {
	savedChannel := s.currentChannel
	if s.Radio != nil {
		s.Radio.SetPromiscuousRxCallback(func(payload []byte, meta ports.RxMetadata) {
			s.meshCB(payload, meta.Type)
		})
		s.Radio.SetChannel(s.cfg.MeshChannel, ports.SecondaryChannelNone)
	}

drain:
	for {
		select {
		case frame := <-s.meshQueue:
			if len(frame.Bytes) < 16 {
				continue
			}
			var srcMAC [6]byte
			copy(srcMAC[:], frame.Bytes[10:16])
			s.Relay.AcceptFrame(mesh.Frame{SourceMAC: srcMAC, Payload: frame.Bytes}, now)
		default:
			break drain
		}
	}

	if s.Radio != nil {
		if s.cfg.EnablePassiveScan {
			s.Radio.SetPromiscuousRxCallback(func(payload []byte, meta ports.RxMetadata) {
				s.probeCB(payload, meta.Type)
			})
		} else {
			s.Radio.SetPromiscuousRxCallback(nil)
		}
		s.Radio.SetChannel(savedChannel, ports.SecondaryChannelNone)
	}
}

// lifecycleTickIfDue implements §4.6 step 4 / §4.4.
func (s *Scheduler) lifecycleTickIfDue(now time.Time) {
	if !s.cfg.EnableLifecycleSim {
		return
	}
	if s.nextLifecycleAt.IsZero() {
		s.nextLifecycleAt = now
	}
	if now.Before(s.nextLifecycleAt) {
		return
	}

	n := s.cfg.RotateMin + s.rng.Intn(s.cfg.RotateMax-s.cfg.RotateMin+1)
	for i := 0; i < n; i++ {
		s.Pools.RotateOnce(s.Gov.LowMemory)
	}
	if s.OnRotation != nil {
		s.OnRotation(len(s.Pools.Active), len(s.Pools.Dormant))
	}

	delay := s.cfg.LifecycleMin + time.Duration(s.rng.Int63n(int64(s.cfg.LifecycleMax-s.cfg.LifecycleMin)+1))
	s.nextLifecycleAt = now.Add(delay)
}

// nextChannel advances the round-robin channel index, alternating bands.
func (s *Scheduler) nextChannel() (channel int, is5ghz bool) {
	s.is5ghz = !s.is5ghz
	if s.is5ghz {
		ch := s.cfg.Channels5[s.chanIdx5%len(s.cfg.Channels5)]
		s.chanIdx5++
		return ch, true
	}
	ch := s.cfg.Channels24[s.chanIdx24%len(s.cfg.Channels24)]
	s.chanIdx24++
	return ch, false
}

// fakeAPMAC returns a fresh locally-administered fake-AP address sharing
// the `02:11:22` prefix the spec's beacon scenario uses.
func fakeAPMAC(rng *rand.Rand) []byte {
	suffix := make([]byte, 3)
	rng.Read(suffix)
	return []byte{0x02, 0x11, 0x22, suffix[0], suffix[1], suffix[2]}
}

// sequenceGap picks how much to advance a device's sequence number after a
// probe request: +1 normally, +2..7 with 0.20 probability when sequence
// gaps are enabled.
func (s *Scheduler) sequenceGap() uint16 {
	if s.cfg.EnableSequenceGaps && s.rng.Float64() < 0.20 {
		return uint16(2 + s.rng.Intn(6))
	}
	return 1
}

// noiseFill emits a bounded burst of noise probes approximating
// the requested millisecond window. There is no real airtime to pace
// against in a host-based simulation, so duration is approximated by a
// fixed per-packet cost instead of a wall-clock sleep, keeping the
// scheduler loop non-blocking.
const assumedNoiseProbeCostMs = 0.5

func (s *Scheduler) noiseFill(minMs, maxMs float64) {
	durationMs := minMs + s.rng.Float64()*(maxMs-minMs)
	s.setNoiseTXPower()
	elapsed := 0.0
	for elapsed < durationMs {
		frame := synth.NoiseProbe(s.rng)
		if s.Radio != nil {
			s.Radio.TX80211("wlan0", frame, false)
		}
		elapsed += assumedNoiseProbeCostMs
	}
}

func (s *Scheduler) setNoiseTXPower() {
	if s.Radio == nil {
		return
	}
	power := swarm.NoiseMinTXPower + s.rng.Intn(swarm.NoiseMaxTXPower-swarm.NoiseMinTXPower+1)
	s.Radio.SetMaxTXPower(power)
}

// runInteraction transmits the Auth -> AssocReq -> Data-burst sequence for
// a device with a preferred SSID (§4.6's 0.02-probability branch).
func (s *Scheduler) runInteraction(d *swarm.Device, ctx *synth.Context) {
	tx := func(frame []byte) {
		if s.Radio != nil {
			s.Radio.TX80211("wlan0", frame, false)
		}
		s.Stats.TXCount++
	}

	tx(synth.Authentication(d))
	d.NextSequence(1)
	s.noiseFill(7, 20)

	tx(synth.AssociationRequest(d, ctx))
	d.NextSequence(1)
	s.noiseFill(22, 50)

	n := 3 + s.rng.Intn(11-3+1)
	for i := 0; i < n; i++ {
		tx(synth.EncryptedData(d, s.rng))
		d.NextSequence(1)
		s.noiseFill(4, 10)
	}

	s.Stats.InteractionCount++
}

// hopTickIfDue implements §4.6 step 5.
func (s *Scheduler) hopTickIfDue(now time.Time) {
	if s.nextHopAt.IsZero() {
		s.nextHopAt = now
	}
	if now.Before(s.nextHopAt) {
		return
	}

	channel, is5ghz := s.nextChannel()
	s.currentChannel = channel
	if s.Radio != nil {
		s.Radio.SetChannel(channel, ports.SecondaryChannelNone)
	}
	s.Stats.HopCount++

	packets := s.cfg.PacketsPerHopMin + s.rng.Intn(s.cfg.PacketsPerHopMax-s.cfg.PacketsPerHopMin)

	ctx := &synth.Context{Channel: byte(channel), Is5GHz: is5ghz, Store: s.Store, RNG: s.rng}

	for i := 0; i < packets; i++ {
		if s.cfg.EnableMeshRelay && !is5ghz && channel == s.cfg.MeshChannel && s.rng.Float64() < mesh.RebroadcastProbability {
			if s.Relay.Cache.Len() > 0 {
				idx := s.rng.Intn(s.Relay.Cache.Len())
				payload := s.Relay.Cache.Random(idx)
				if s.Radio != nil && payload != nil {
					s.Radio.SetMaxTXPower(swarm.MaxTXPower)
					s.Radio.TX80211("wlan0", payload, false)
					s.Stats.MeshRebroadcasts++
					if s.OnMeshRebroadcast != nil {
						s.OnMeshRebroadcast()
					}
				}
			}
		}

		d := s.Pools.RandomActive()
		if d == nil {
			continue
		}
		if is5ghz && d.Generation == swarm.Legacy {
			continue
		}

		if s.Radio != nil {
			s.Radio.SetMaxTXPower(d.TXPower)
		}

		if s.cfg.EnableInteractionSim && d.PreferredSSIDIndex != swarm.NoPreferredSSID && s.rng.Float64() < 0.02 {
			s.runInteraction(d, ctx)
		} else {
			frame := synth.ProbeRequest(d, ctx)
			if s.Radio != nil {
				s.Radio.TX80211("wlan0", frame, false)
			}
			s.Stats.TXCount++
			d.NextSequence(s.sequenceGap())
		}

		s.noiseFill(s.cfg.NoiseFillBetweenSlotsMinMs, s.cfg.NoiseFillBetweenSlotsMaxMs)
	}

	if s.cfg.EnableBeaconEmulation {
		beaconChance := 0.02
		if s.Store.Count() >= s.Store.MaxLearned()+30 {
			beaconChance = 0.05
		}
		if s.rng.Float64() < beaconChance {
			idx := s.Store.RandomIndex(s.rng)
			ssid := s.Store.Get(idx)
			apMAC := fakeAPMAC(s.rng)
			frame := synth.Beacon(apMAC, ssid, ctx)
			if s.Radio != nil {
				s.Radio.SetMaxTXPower(swarm.MaxTXPower)
				s.Radio.TX80211("wlan0", frame, false)
			}
			s.Stats.BeaconCount++
		}
	}

	delay := s.cfg.HopMin + time.Duration(s.rng.Int63n(int64(s.cfg.HopMax-s.cfg.HopMin)+1))
	s.nextHopAt = now.Add(delay)
}

// SetEnableMeshRelay toggles mesh relay listening/rebroadcast at runtime.
func (s *Scheduler) SetEnableMeshRelay(enabled bool) { s.cfg.EnableMeshRelay = enabled }

// SetEnableInteractionSim toggles full auth/assoc/data sequences at runtime.
func (s *Scheduler) SetEnableInteractionSim(enabled bool) { s.cfg.EnableInteractionSim = enabled }

// SetEnableSequenceGaps toggles occasional sequence-number skipping at runtime.
func (s *Scheduler) SetEnableSequenceGaps(enabled bool) { s.cfg.EnableSequenceGaps = enabled }

// Snapshot returns read-only copies of the fields the control/status
// server reports, without exposing the mutable config or pools directly.
func (s *Scheduler) Snapshot() (stats Stats, activeLen, dormantLen, currentChannel int, is5ghz bool, meshDetected bool, ssidCount int, lowMemory bool) {
	return s.Stats, len(s.Pools.Active), len(s.Pools.Dormant), s.currentChannel, s.is5ghz, s.Relay.MeshDetected, s.Store.Count(), s.Gov.LowMemory
}

// Tick runs one full iteration of the §4.6 state machine. The caller is
// responsible for calling Tick repeatedly (e.g. from a loop or ticker);
// each call is non-blocking and returns promptly.
func (s *Scheduler) Tick(now time.Time) {
	s.drainLearnedSSIDs(now)
	s.governorTick()
	s.meshTick(now)
	s.lifecycleTickIfDue(now)
	s.hopTickIfDue(now)
}
