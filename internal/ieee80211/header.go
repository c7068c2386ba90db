package ieee80211

import "net"

// Broadcast is the all-ones link-layer address used for Addr1/Addr3 on
// unassociated probe traffic.
var Broadcast = net.HardwareAddr{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// Header3 builds the standard 24-byte 3-address 802.11 MAC header: Frame
// Control (2), Duration/ID (2), Addr1, Addr2, Addr3 (6 each), Sequence
// Control (2).
func Header3(fc0, fc1 byte, duration uint16, addr1, addr2, addr3 net.HardwareAddr, seq uint16) []byte {
	h := make([]byte, 24)
	h[0] = fc0
	h[1] = fc1
	h[2] = byte(duration & 0xFF)
	h[3] = byte(duration >> 8)
	copy(h[4:10], addr1)
	copy(h[10:16], addr2)
	copy(h[16:22], addr3)
	lo, hi := EncodeSequenceControl(seq)
	h[22] = lo
	h[23] = hi
	return h
}
