package swarm

import (
	"math/rand"

	"github.com/emperornerd/GhostWalk/internal/identity"
)

// Pools holds the two-tier device population: Active stations currently
// being cycled through the scheduler's hop loop, and Dormant stations held
// in reserve so a rotation can "bring back" a device instead of always
// minting a fresh identity.
type Pools struct {
	Active  []*Device
	Dormant []*Device

	TargetActive  int
	TargetDormant int

	rng   *rand.Rand
	store identity.SSIDCount
}

// NewPools constructs an empty pool pair with the given target sizes.
func NewPools(targetActive, targetDormant int, rng *rand.Rand, store identity.SSIDCount) *Pools {
	return &Pools{
		TargetActive:  targetActive,
		TargetDormant: targetDormant,
		rng:           rng,
		store:         store,
	}
}

// Initialize pushes targetActive freshly generated devices into Active.
// heapOK is polled before each push; if it reports false, initialization
// stops early, leaving a smaller-than-target pool rather than overrunning
// the memory envelope.
func (p *Pools) Initialize(heapOK func() bool) {
	for i := 0; i < p.TargetActive; i++ {
		if heapOK != nil && !heapOK() {
			return
		}
		p.Active = append(p.Active, identity.New(p.rng, p.store))
	}
}

// removeRandom removes and returns a uniformly random element of the given
// slice, or (nil, slice) if it is empty.
func removeRandom(rng *rand.Rand, s []*Device) (*Device, []*Device) {
	if len(s) == 0 {
		return nil, s
	}
	i := rng.Intn(len(s))
	d := s[i]
	s[i] = s[len(s)-1]
	s = s[:len(s)-1]
	return d, s
}

// RotateOnce implements the §4.4 rotation algorithm: retire one active
// device to dormant (or drop it under memory pressure), then either revive
// a dormant device or mint a fresh one to take its place, unless the
// active pool is already at or over the low-memory growth cap of 800.
func (p *Pools) RotateOnce(lowMemory bool) {
	var retired *Device
	retired, p.Active = removeRandom(p.rng, p.Active)
	if retired != nil {
		if !lowMemory && len(p.Dormant) < p.TargetDormant {
			p.Dormant = append(p.Dormant, retired)
		}
	}

	if lowMemory && len(p.Active) >= 800 {
		return
	}

	var revived *Device
	if len(p.Dormant) > 0 && p.rng.Float64() < 0.5 {
		revived, p.Dormant = removeRandom(p.rng, p.Dormant)
		revived.SequenceNumber = (revived.SequenceNumber + uint16(50+p.rng.Intn(450))) % 4096
		if p.rng.Float64() < 0.3 {
			delta := 2
			if p.rng.Intn(2) == 0 {
				delta = -2
			}
			revived.TXPower = ClampTXPower(revived.TXPower + delta)
		}
		revived.HasConnected = false
	} else {
		revived = identity.New(p.rng, p.store)
	}

	p.Active = append(p.Active, revived)
}

// RandomActive returns a uniformly random active device, or nil if Active
// is empty.
func (p *Pools) RandomActive() *Device {
	if len(p.Active) == 0 {
		return nil
	}
	return p.Active[p.rng.Intn(len(p.Active))]
}

// DropDormantFront removes the first n entries of Dormant (oldest-first
// eviction under heap pressure).
func (p *Pools) DropDormantFront(n int) {
	if n > len(p.Dormant) {
		n = len(p.Dormant)
	}
	p.Dormant = p.Dormant[n:]
}

// DropActiveFront removes the first n entries of Active.
func (p *Pools) DropActiveFront(n int) {
	if n > len(p.Active) {
		n = len(p.Active)
	}
	p.Active = p.Active[n:]
}
