// Package synth assembles complete 802.11 frames for a virtual device.
// Every builder is a pure function of (device, context) to bytes, grounded
// on the teacher's injection builders but retargeted at the byte-exact IE
// contract §4.3 of the spec mandates rather than a live attack payload.
package synth

import (
	"math/rand"

	"github.com/emperornerd/GhostWalk/internal/ieee80211"
	"github.com/emperornerd/GhostWalk/internal/ssidstore"
	"github.com/emperornerd/GhostWalk/internal/swarm"
)

// Context carries the per-transmission facts a frame builder needs beyond
// the device itself: current channel/band and the SSID store used for
// probe/beacon SSID selection.
type Context struct {
	Channel byte
	Is5GHz  bool
	Store   *ssidstore.Store
	RNG     *rand.Rand
}

// rateTable picks the supported-rates payload for the given band and
// device generation: legacy radios on 2.4 GHz still advertise the
// original 11b rate set, everyone else advertises the modern set (and
// Legacy devices are never scheduled on 5 GHz to begin with).
func rateTable(ctx *Context, gen swarm.Generation) []byte {
	if ctx.Is5GHz {
		return ieee80211.Rates5GHz
	}
	if gen == swarm.Legacy {
		return ieee80211.RatesLegacy24
	}
	return ieee80211.RatesModern24
}

// chooseSSID resolves the SSID a probe/beacon should advertise: the
// device's preferred SSID if still valid, else a uniformly random store
// entry, else a 7-character random lowercase fallback (emulating a hidden
// network probe).
func chooseSSID(d *swarm.Device, ctx *Context) string {
	if d.PreferredSSIDIndex != swarm.NoPreferredSSID {
		if s := ctx.Store.Get(d.PreferredSSIDIndex); s != "" {
			return s
		}
	}
	if idx := ctx.Store.RandomIndex(ctx.RNG); idx >= 0 {
		if s := ctx.Store.Get(idx); s != "" {
			return s
		}
	}
	return randomLowercase(ctx.RNG, 7)
}

const lowercaseAlphabet = "abcdefghijklmnopqrstuvwxyz"

func randomLowercase(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = lowercaseAlphabet[rng.Intn(len(lowercaseAlphabet))]
	}
	return string(b)
}

// isIOS / isLegacyOrOther mirror the categories the probe IE ordering
// branches on (§4.3).
func isIOS(d *swarm.Device) bool          { return d.Platform == swarm.PlatformIOS }
func isLegacyOrOther(d *swarm.Device) bool {
	return d.Generation == swarm.Legacy || d.Platform == swarm.PlatformOther
}

// ProbeRequest builds a complete probe request frame for d on the current
// channel/band. SSID element follows §4.3's wildcard rule, then IEs are
// emitted in the mandated strict order.
func ProbeRequest(d *swarm.Device, ctx *Context) []byte {
	var ssid string
	wildcard := false
	if isLegacyOrOther(d) && ctx.RNG.Float64() < 0.40 {
		wildcard = true
	} else {
		ssid = chooseSSID(d, ctx)
	}

	header := ieee80211.Header3(ieee80211.FCProbeRequest, ieee80211.FlagsNone, 0,
		ieee80211.Broadcast, d.MAC, ieee80211.Broadcast, d.SequenceNumber)

	body := make([]byte, 0, 200)
	if wildcard {
		body = append(body, ieee80211.BuildIE(ieee80211.TagSSID, nil)...)
	} else {
		body = append(body, ieee80211.BuildIE(ieee80211.TagSSID, []byte(ssid))...)
	}
	body = append(body, ieee80211.BuildIE(ieee80211.TagSupportedRates, rateTable(ctx, d.Generation))...)
	body = append(body, ieee80211.BuildIE(ieee80211.TagDSParameterSet, []byte{ctx.Channel})...)

	if isIOS(d) {
		body = append(body, ieee80211.BuildIE(ieee80211.TagExtendedCapabilities, ieee80211.ExtendedCapabilities(true))...)
	}

	body = append(body, ieee80211.BuildIE(ieee80211.TagHTCapabilities, ieee80211.HTCapabilities())...)

	if d.Generation.SupportsVHT() {
		body = append(body, ieee80211.BuildIE(ieee80211.TagVHTCapabilities, ieee80211.VHTCapabilities())...)
	}

	if !isIOS(d) && d.Generation != swarm.Legacy {
		body = append(body, ieee80211.BuildIE(ieee80211.TagExtendedCapabilities, ieee80211.ExtendedCapabilities(false))...)
	}

	if d.Generation.SupportsHE() {
		body = append(body, ieee80211.BuildExtensionIE(ieee80211.ExtHECapabilities, ieee80211.HECapabilitiesExt())...)
	}

	body = append(body, ieee80211.BuildIE(ieee80211.TagVendorSpecific, ieee80211.WFAVendorIE())...)

	if isIOS(d) {
		body = append(body, ieee80211.BuildIE(ieee80211.TagVendorSpecific, ieee80211.AppleVendorIE())...)
	}

	return append(header, body...)
}

// capabilityInfo is the fixed 2-byte Capability Information field every
// association/beacon frame carries in this system: ESS, privacy, short
// preamble, and short slot time (0x0431 little-endian).
var capabilityInfo = []byte{0x31, 0x04}

// AssociationRequest builds an association request frame toward d's
// bssid_target.
func AssociationRequest(d *swarm.Device, ctx *Context) []byte {
	header := ieee80211.Header3(ieee80211.FCAssociationReq, ieee80211.FlagsNone, 0,
		d.BSSIDTarget, d.MAC, d.BSSIDTarget, d.SequenceNumber)

	ssid := chooseSSID(d, ctx)

	body := make([]byte, 0, 200)
	body = append(body, capabilityInfo...)
	body = append(body, 0x0A, 0x00) // listen interval
	body = append(body, ieee80211.BuildIE(ieee80211.TagSSID, []byte(ssid))...)
	body = append(body, ieee80211.BuildIE(ieee80211.TagSupportedRates, rateTable(ctx, d.Generation))...)
	body = append(body, ieee80211.BuildIE(ieee80211.TagRSN, ieee80211.RSN())...)
	body = append(body, ieee80211.BuildIE(ieee80211.TagHTCapabilities, ieee80211.HTCapabilities())...)
	if d.Generation != swarm.Legacy {
		body = append(body, ieee80211.BuildIE(ieee80211.TagVHTCapabilities, ieee80211.VHTCapabilities())...)
	}
	if d.Generation.SupportsHE() {
		body = append(body, ieee80211.BuildExtensionIE(ieee80211.ExtHECapabilities, ieee80211.HECapabilitiesExt())...)
	}

	return append(header, body...)
}

// Authentication builds a minimal open-system authentication frame (seq 1
// of the exchange): algorithm 0 (open), transaction seq 1, status 0.
func Authentication(d *swarm.Device) []byte {
	header := ieee80211.Header3(ieee80211.FCAuthentication, ieee80211.FlagsNone, 0,
		d.BSSIDTarget, d.MAC, d.BSSIDTarget, d.SequenceNumber)

	body := []byte{
		0x00, 0x00, // auth algorithm: open system
		0x01, 0x00, // auth transaction sequence number
		0x00, 0x00, // status code: success
	}
	return append(header, body...)
}

// ccmpHeaderLen is the synthetic CCMP header length (PN low byte + key id).
const ccmpHeaderLen = 2

// EncryptedData builds a protected data frame with a synthetic CCMP header
// and 64-512 bytes of opaque payload. Nothing downstream ever parses the
// payload; only the outer header is part of the fingerprint contract.
func EncryptedData(d *swarm.Device, rng *rand.Rand) []byte {
	header := ieee80211.Header3(ieee80211.FCDataProtected, ieee80211.FlagsToDSProtected, 0,
		d.BSSIDTarget, d.MAC, d.BSSIDTarget, d.SequenceNumber)

	ccmp := []byte{byte(rng.Intn(8)), 0x00}
	payloadLen := 64 + rng.Intn(512-64+1)
	payload := make([]byte, payloadLen)
	rng.Read(payload)

	out := make([]byte, 0, len(header)+ccmpHeaderLen+payloadLen)
	out = append(out, header...)
	out = append(out, ccmp...)
	out = append(out, payload...)
	return out
}

// Beacon builds a fake-AP beacon for ssid on the current channel/band.
// apMAC is the locally-administered fake AP address used as Addr2/Addr3.
func Beacon(apMAC []byte, ssid string, ctx *Context) []byte {
	header := ieee80211.Header3(ieee80211.FCBeacon, ieee80211.FlagsNone, 0,
		ieee80211.Broadcast, apMAC, apMAC, 0)

	body := make([]byte, 0, 200)
	body = append(body, make([]byte, 8)...) // timestamp: zeroed
	body = append(body, 0x64, 0x00)          // beacon interval
	body = append(body, capabilityInfo...)
	body = append(body, ieee80211.BuildIE(ieee80211.TagSSID, []byte(ssid))...)
	body = append(body, ieee80211.BuildIE(ieee80211.TagSupportedRates, rateTable(ctx, swarm.Common))...)
	body = append(body, ieee80211.BuildIE(ieee80211.TagDSParameterSet, []byte{ctx.Channel})...)
	body = append(body, ieee80211.BuildIE(ieee80211.TagHTOperation, ieee80211.HTOperation(ctx.Channel))...)
	if ctx.Is5GHz {
		body = append(body, ieee80211.BuildIE(ieee80211.TagVHTOperation, ieee80211.VHTOperation())...)
	}

	return append(header, body...)
}

// NoiseProbe builds a throwaway silence-filler probe request from a fresh
// random locally-administered source MAC: a short random-lowercase SSID
// with probability 0.40, else wildcard, plus a minimal rates IE.
func NoiseProbe(rng *rand.Rand) []byte {
	mac := make([]byte, 6)
	rng.Read(mac)
	mac[0] = (mac[0] &^ 0x01) | 0x02

	header := ieee80211.Header3(ieee80211.FCProbeRequest, ieee80211.FlagsNone, 0,
		ieee80211.Broadcast, mac, ieee80211.Broadcast, uint16(rng.Intn(4096)))

	body := make([]byte, 0, 40)
	if rng.Float64() < 0.40 {
		n := 5 + rng.Intn(11-5+1)
		body = append(body, ieee80211.BuildIE(ieee80211.TagSSID, []byte(randomLowercase(rng, n)))...)
	} else {
		body = append(body, ieee80211.BuildIE(ieee80211.TagSSID, nil)...)
	}
	body = append(body, ieee80211.BuildIE(ieee80211.TagSupportedRates, ieee80211.RatesLegacy24)...)

	return append(header, body...)
}
