// Package swarm holds the virtual device population: the per-station
// identity a phantom frame is built from, and the active/dormant pools
// that churn it to mimic arrivals and departures.
package swarm

import "net"

// Generation is the WiFi hardware era a virtual device claims.
type Generation int

const (
	// Legacy devices never transmit VHT or HE capability IEs and are
	// never selected for TX on a 5 GHz channel.
	Legacy Generation = iota
	// Common devices may transmit HT + VHT but not HE.
	Common
	// Modern devices may transmit HT + VHT + HE.
	Modern
)

func (g Generation) String() string {
	switch g {
	case Legacy:
		return "legacy"
	case Common:
		return "common"
	case Modern:
		return "modern"
	default:
		return "unknown"
	}
}

// SupportsHT reports whether the generation advertises HT capabilities.
func (g Generation) SupportsHT() bool { return true }

// SupportsVHT reports whether the generation advertises VHT capabilities.
func (g Generation) SupportsVHT() bool { return g == Common || g == Modern }

// SupportsHE reports whether the generation advertises HE capabilities.
func (g Generation) SupportsHE() bool { return g == Modern }

// Platform is the coarse OS family a virtual device impersonates.
type Platform int

const (
	PlatformOther Platform = iota
	PlatformIOS
	PlatformAndroid
)

func (p Platform) String() string {
	switch p {
	case PlatformIOS:
		return "ios"
	case PlatformAndroid:
		return "android"
	default:
		return "other"
	}
}

// TX power ladder: sticky preferred power drawn from this set, perturbed
// +/-2 units on re-arrival and clamped back into [MinTXPower, MaxTXPower].
const (
	MinTXPower = 72
	MaxTXPower = 82
)

// TXPowerLadder is the fixed set of quarter-dBm power levels a device's
// sticky tx power is first drawn from.
var TXPowerLadder = []int{72, 74, 76, 78, 80, 82}

// NoiseMinTXPower / NoiseMaxTXPower bound the power used while emitting
// noise-filler probes between real packet slots.
const (
	NoiseMinTXPower = 68
	NoiseMaxTXPower = 73
)

// Device is one simulated station.
type Device struct {
	MAC                net.HardwareAddr // 6 bytes, unicast (bit0 of byte0 clear)
	BSSIDTarget        net.HardwareAddr // 6 bytes, fixed per device
	SequenceNumber     uint16           // 12-bit counter, mod 4096
	PreferredSSIDIndex int              // -1 means "no preference"
	Generation         Generation
	Platform           Platform
	HasConnected       bool
	TXPower            int
}

// NoPreferredSSID is the sentinel PreferredSSIDIndex value meaning "None".
const NoPreferredSSID = -1

// NextSequence advances the device's sequence number by delta (mod 4096)
// and returns the new value.
func (d *Device) NextSequence(delta uint16) uint16 {
	d.SequenceNumber = (d.SequenceNumber + delta) % 4096
	return d.SequenceNumber
}

// IsUnicast reports whether the device MAC has the multicast bit clear,
// as required of every station address.
func (d *Device) IsUnicast() bool {
	return len(d.MAC) == 6 && d.MAC[0]&0x01 == 0
}

// ClampTXPower clamps a candidate tx power into [MinTXPower, MaxTXPower].
func ClampTXPower(p int) int {
	if p < MinTXPower {
		return MinTXPower
	}
	if p > MaxTXPower {
		return MaxTXPower
	}
	return p
}
