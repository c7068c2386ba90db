// Package identity draws the (vendor OUI, generation, platform, address)
// tuple a new virtual device is born with. The weighted category and
// generation rolls mirror the vendor/security weighting tables in the
// teacher's mock data generator, retargeted at the device population this
// program maintains instead of synthetic scan results.
package identity

import (
	"math/rand"
	"net"

	"github.com/emperornerd/GhostWalk/internal/swarm"
)

// Category is the vendor family a device's OUI is drawn from.
type Category int

const (
	CategoryApple Category = iota
	CategorySamsung
	CategoryLegacyIoT
	CategoryModernGeneric
)

// ouiApple lists Apple-registered OUI prefixes eligible for virtual devices.
var ouiApple = [][3]byte{
	{0x00, 0x17, 0xF2}, {0x00, 0x1E, 0xC2}, {0x00, 0x23, 0x6C}, {0x00, 0x25, 0x00},
	{0x04, 0x0C, 0xCE}, {0x08, 0x66, 0x98}, {0x0C, 0x74, 0xC2}, {0x14, 0x99, 0xE2},
	{0x18, 0xAF, 0x61}, {0x28, 0xE0, 0x2C}, {0x3C, 0x07, 0x54}, {0x40, 0xA6, 0xD9},
	{0x5C, 0x95, 0xAE}, {0x6C, 0x40, 0x08}, {0xA8, 0x5C, 0x2C},
}

// ouiSamsung lists Samsung-registered OUI prefixes.
var ouiSamsung = [][3]byte{
	{0x00, 0x12, 0x47}, {0x00, 0x15, 0x99}, {0x00, 0x1D, 0x25}, {0x08, 0xD4, 0x2B},
	{0x10, 0x3B, 0x59}, {0x1C, 0x5A, 0x3E}, {0x34, 0x23, 0x87}, {0x5C, 0x0A, 0x5B},
	{0x8C, 0x77, 0x12}, {0xC8, 0x19, 0xF7},
}

// ouiLegacyIoT lists OUI prefixes used by older embedded/IoT silicon.
var ouiLegacyIoT = [][3]byte{
	{0x00, 0x0C, 0x43}, {0x00, 0x13, 0x10}, {0x00, 0x1A, 0x11}, {0x18, 0xFE, 0x34},
	{0x5C, 0xCF, 0x7F}, {0x68, 0xC6, 0x3A}, {0xEC, 0xFA, 0xBC},
}

// ouiModernGeneric lists OUI prefixes for current Intel/Google/Amazon-class
// radios that do not map to the Apple or Samsung pools.
var ouiModernGeneric = [][3]byte{
	{0x00, 0x1B, 0x63}, {0x3C, 0x28, 0x6D}, {0x9C, 0xB6, 0xD0}, {0xA4, 0xC3, 0xF0},
	{0xB8, 0x27, 0xEB}, {0xDC, 0xA6, 0x32}, {0xF4, 0xF5, 0xD8}, {0xFC, 0xA6, 0x67},
}

func pool(c Category) [][3]byte {
	switch c {
	case CategoryApple:
		return ouiApple
	case CategorySamsung:
		return ouiSamsung
	case CategoryLegacyIoT:
		return ouiLegacyIoT
	default:
		return ouiModernGeneric
	}
}

// drawCategory rolls the vendor family per the identity generator's
// weighted table: [0,40) Apple, [40,75) Samsung, [75,82) Legacy IoT,
// [82,100) Modern Generic.
func drawCategory(rng *rand.Rand) Category {
	r := rng.Intn(100)
	switch {
	case r < 40:
		return CategoryApple
	case r < 75:
		return CategorySamsung
	case r < 82:
		return CategoryLegacyIoT
	default:
		return CategoryModernGeneric
	}
}

// drawGeneration rolls the hardware generation conditioned on category.
func drawGeneration(c Category, rng *rand.Rand) swarm.Generation {
	switch c {
	case CategoryApple:
		if rng.Float64() < 0.20 {
			return swarm.Modern
		}
		return swarm.Common
	case CategorySamsung:
		if rng.Float64() < 0.30 {
			return swarm.Modern
		}
		return swarm.Common
	case CategoryLegacyIoT:
		return swarm.Legacy
	default: // CategoryModernGeneric
		return swarm.Modern
	}
}

// drawPlatform rolls the platform a device impersonates given its category.
func drawPlatform(c Category, rng *rand.Rand) swarm.Platform {
	switch c {
	case CategoryApple:
		return swarm.PlatformIOS
	case CategorySamsung:
		return swarm.PlatformAndroid
	case CategoryLegacyIoT:
		return swarm.PlatformOther
	default: // CategoryModernGeneric: Android unconditionally, per the 82-99 row
		return swarm.PlatformAndroid
	}
}

// localMACProbability is the chance, by generation, that a device's radio
// MAC is a fully random locally-administered address rather than one drawn
// from a vendor OUI pool. Modern radios randomize aggressively; legacy
// embedded silicon never does.
func localMACProbability(g swarm.Generation) float64 {
	switch g {
	case swarm.Modern:
		return 0.85
	case swarm.Common:
		return 0.50
	default: // Legacy
		return 0.00
	}
}

// randomSuffix fills the low 3 octets of a MAC address.
func randomSuffix(rng *rand.Rand) [3]byte {
	var s [3]byte
	rng.Read(s[:])
	return s
}

// randomLocalMAC returns a random locally-administered, unicast address:
// bit 1 (locally administered) set, bit 0 (multicast) clear on the first
// octet.
func randomLocalMAC(rng *rand.Rand) net.HardwareAddr {
	mac := make(net.HardwareAddr, 6)
	rng.Read(mac)
	mac[0] = (mac[0] &^ 0x01) | 0x02
	return mac
}

// vendorMAC returns a unicast address built from a vendor OUI plus a
// random device-specific suffix.
func vendorMAC(c Category, rng *rand.Rand) net.HardwareAddr {
	p := pool(c)
	oui := p[rng.Intn(len(p))]
	suffix := randomSuffix(rng)
	return net.HardwareAddr{oui[0], oui[1], oui[2], suffix[0], suffix[1], suffix[2]}
}

// drawMAC picks either a vendor-OUI address or a fully random
// locally-administered one, per localMACProbability.
func drawMAC(c Category, g swarm.Generation, rng *rand.Rand) net.HardwareAddr {
	if rng.Float64() < localMACProbability(g) {
		return randomLocalMAC(rng)
	}
	return vendorMAC(c, rng)
}

// bssidPrefix is the synthetic "infrastructure" OUI every phantom BSSID
// target shares: it never collides with a real vendor registration, so a
// captured frame can never be misattributed to an actual access point.
var bssidPrefix = [3]byte{0x00, 0x11, 0x32}

// drawBSSIDTarget returns the fixed-prefix synthetic BSSID a device will
// claim to be associated with.
func drawBSSIDTarget(rng *rand.Rand) net.HardwareAddr {
	suffix := randomSuffix(rng)
	return net.HardwareAddr{bssidPrefix[0], bssidPrefix[1], bssidPrefix[2], suffix[0], suffix[1], suffix[2]}
}

// SSIDCount abstracts the SSID store just enough for preferred-index
// assignment, avoiding an import cycle between identity and ssidstore.
type SSIDCount interface {
	Count() int
}

// preferredSSIDProbability returns the chance a newly-created device is
// assigned a preferred (previously-connected) SSID instead of none.
func preferredSSIDProbability(g swarm.Generation) float64 {
	if g == swarm.Legacy {
		return 0.90
	}
	return 0.60
}

// New draws a complete virtual device identity.
func New(rng *rand.Rand, store SSIDCount) *swarm.Device {
	cat := drawCategory(rng)
	gen := drawGeneration(cat, rng)
	plat := drawPlatform(cat, rng)

	preferred := swarm.NoPreferredSSID
	if n := store.Count(); n > 0 && rng.Float64() < preferredSSIDProbability(gen) {
		preferred = rng.Intn(n)
	}

	power := swarm.TXPowerLadder[rng.Intn(len(swarm.TXPowerLadder))]

	return &swarm.Device{
		MAC:                drawMAC(cat, gen, rng),
		BSSIDTarget:        drawBSSIDTarget(rng),
		SequenceNumber:     uint16(rng.Intn(4096)),
		PreferredSSIDIndex: preferred,
		Generation:         gen,
		Platform:           plat,
		HasConnected:       false,
		TXPower:            power,
	}
}
