// Package ieee80211 builds the bit-level primitives the frame synthesizer
// assembles into complete management and data frames: frame-control
// subtypes, tagged Information Elements, and the canonical capability
// payloads listed in the DPI fingerprint contract.
package ieee80211

// Frame Control byte0 values (protocol version 00, type, subtype already
// folded in), matching the literal bytes the fingerprint contract requires.
const (
	FCProbeRequest     = 0x40
	FCBeacon           = 0x80
	FCAuthentication   = 0xB0
	FCAssociationReq   = 0x00
	FCDataProtected    = 0x88
)

// Frame Control byte1 (flag) values.
const (
	FlagsNone            = 0x00
	FlagsToDSProtected   = 0x41 // ToDS | Protected, used by the encrypted data frame
)

// Information Element tag IDs.
const (
	TagSSID                 = 0
	TagSupportedRates       = 1
	TagDSParameterSet       = 3
	TagHTCapabilities       = 45
	TagRSN                  = 48
	TagExtendedRates        = 50
	TagHTOperation          = 61
	TagExtendedCapabilities = 127
	TagVHTCapabilities      = 191
	TagVHTOperation         = 192
	TagVendorSpecific       = 221
	TagExtension            = 255
)

// Extension Element IDs (carried under TagExtension).
const (
	ExtHECapabilities = 35
)

// BuildIE encodes a standard {tag, length, payload} element.
func BuildIE(tag byte, payload []byte) []byte {
	out := make([]byte, 0, 2+len(payload))
	out = append(out, tag, byte(len(payload)))
	out = append(out, payload...)
	return out
}

// BuildExtensionIE encodes a {255, len(payload)+1, extID, payload} element.
func BuildExtensionIE(extID byte, payload []byte) []byte {
	out := make([]byte, 0, 3+len(payload))
	out = append(out, TagExtension, byte(len(payload)+1), extID)
	out = append(out, payload...)
	return out
}

// Rate tables. Bytes are the wire-format basic/supported rate codes; they
// are preserved verbatim because DPI tools fingerprint on them, not on
// what the underlying radio could actually negotiate.
var (
	RatesLegacy24 = []byte{0x82, 0x84, 0x8B, 0x96}
	RatesModern24 = []byte{0x02, 0x04, 0x0B, 0x16, 0x0C, 0x12, 0x18, 0x24}
	Rates5GHz     = []byte{0x0C, 0x12, 0x18, 0x24, 0x30, 0x48, 0x60, 0x6C}
)

// HTCapabilities returns the canonical 26-byte HT Capabilities payload.
// Past the five leading bytes, only byte index 15 is non-zero (MCS set
// bit 0 set): all generations that support HT advertise this identical
// payload.
func HTCapabilities() []byte {
	b := make([]byte, 26)
	b[0] = 0xEF
	b[1] = 0x01
	b[2] = 0x1B
	b[3] = 0xFF
	b[4] = 0xFF
	b[15] = 0x01
	return b
}

// VHTCapabilities returns the canonical 12-byte VHT Capabilities payload.
func VHTCapabilities() []byte {
	return []byte{0x91, 0x59, 0x82, 0x0F, 0xEA, 0xFF, 0x00, 0x00, 0xEA, 0xFF, 0x00, 0x00}
}

// HECapabilitiesExt returns the canonical 22-byte HE Capabilities extension
// payload (carried under Extension ID 35).
func HECapabilitiesExt() []byte {
	b := make([]byte, 22)
	b[0] = 0x23
	b[1] = 0x09
	b[2] = 0x01
	b[3] = 0x00
	b[4] = 0x02
	b[5] = 0x40
	b[18] = 0xAA
	b[19] = 0xAA
	b[20] = 0xAA
	b[21] = 0xAA
	return b
}

// AppleVendorIE returns the Apple vendor-specific IE payload (OUI 00:17:F2).
func AppleVendorIE() []byte {
	return []byte{0x00, 0x17, 0xF2, 0x0A, 0x00, 0x01, 0x04}
}

// WFAVendorIE returns the WFA vendor-specific IE payload.
func WFAVendorIE() []byte {
	return []byte{0x00, 0x10, 0x18, 0x02, 0x00, 0x00, 0x1C, 0x00, 0x00}
}

// RSN returns the canonical 20-byte RSN payload: CCMP pairwise/group
// cipher, PSK AKM, zeroed RSN capabilities.
func RSN() []byte {
	return []byte{
		0x01, 0x00, // version
		0x00, 0x0F, 0xAC, 0x04, // group cipher: CCMP
		0x01, 0x00, // pairwise cipher count
		0x00, 0x0F, 0xAC, 0x04, // pairwise cipher: CCMP
		0x01, 0x00, // AKM suite count
		0x00, 0x0F, 0xAC, 0x02, // AKM: PSK
		0x00, 0x00, // RSN capabilities
	}
}

// ExtendedCapabilities returns the 8-byte Extended Capabilities payload.
// Apple stations and everyone else differ only in byte 0.
func ExtendedCapabilities(apple bool) []byte {
	if apple {
		return []byte{0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x40}
	}
	return []byte{0x04, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x40}
}

// HTOperation returns the 22-byte HT Operation payload for the given
// primary channel.
func HTOperation(channel byte) []byte {
	b := make([]byte, 22)
	b[0] = channel
	return b
}

// VHTOperation returns the 5-byte VHT Operation payload.
func VHTOperation() []byte {
	return make([]byte, 5)
}

// EncodeSequenceControl reproduces the literal (non-standard) byte layout
// the fingerprint contract mandates: the low byte carries seq&0xFF, the
// high byte carries the masked-off top nibble of seq>>8, which for any
// 12-bit sequence number is always zero. This is intentionally preserved
// bit-for-bit rather than "corrected" to the usual 802.11 seq<<4|frag
// layout: DPI tools key on the bytes as observed on air, not on what a
// strictly conformant encoder would produce.
func EncodeSequenceControl(seq uint16) (lo, hi byte) {
	lo = byte(seq & 0xFF)
	hi = byte((seq >> 8) & 0xF0)
	return lo, hi
}
