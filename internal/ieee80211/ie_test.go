package ieee80211

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTCapabilities_ByteExact(t *testing.T) {
	b := HTCapabilities()
	require.Len(t, b, 26)
	assert.Equal(t, byte(0xEF), b[0])
	assert.Equal(t, byte(0x01), b[1])
	assert.Equal(t, byte(0x1B), b[2])
	assert.Equal(t, byte(0xFF), b[3])
	assert.Equal(t, byte(0xFF), b[4])
	assert.Equal(t, byte(0x01), b[15])
	for i, v := range b {
		if i == 0 || i == 1 || i == 2 || i == 3 || i == 4 || i == 15 {
			continue
		}
		assert.Equalf(t, byte(0), v, "byte %d should be zero", i)
	}
}

func TestVHTCapabilities_ByteExact(t *testing.T) {
	want := []byte{0x91, 0x59, 0x82, 0x0F, 0xEA, 0xFF, 0x00, 0x00, 0xEA, 0xFF, 0x00, 0x00}
	assert.Equal(t, want, VHTCapabilities())
}

func TestHECapabilitiesExt_ByteExact(t *testing.T) {
	b := HECapabilitiesExt()
	require.Len(t, b, 22)
	assert.Equal(t, []byte{0x23, 0x09, 0x01, 0x00, 0x02, 0x40}, b[:6])
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0xAA}, b[18:22])
}

func TestExtendedCapabilities_AppleVsOther(t *testing.T) {
	apple := ExtendedCapabilities(true)
	other := ExtendedCapabilities(false)
	require.Len(t, apple, 8)
	require.Len(t, other, 8)
	assert.Equal(t, byte(0x00), apple[0])
	assert.Equal(t, byte(0x04), other[0])
	assert.Equal(t, apple[1:], other[1:], "only byte 0 should differ between variants")
}

func TestRSN_ByteExact(t *testing.T) {
	want := []byte{
		0x01, 0x00,
		0x00, 0x0F, 0xAC, 0x04,
		0x01, 0x00,
		0x00, 0x0F, 0xAC, 0x04,
		0x01, 0x00,
		0x00, 0x0F, 0xAC, 0x02,
		0x00, 0x00,
	}
	assert.Equal(t, want, RSN())
}

func TestBuildIE(t *testing.T) {
	ie := BuildIE(TagSSID, []byte("Home"))
	assert.Equal(t, []byte{0x00, 0x04, 'H', 'o', 'm', 'e'}, ie)
}

func TestBuildExtensionIE(t *testing.T) {
	ie := BuildExtensionIE(ExtHECapabilities, HECapabilitiesExt())
	assert.Equal(t, byte(TagExtension), ie[0])
	assert.Equal(t, byte(23), ie[1]) // payload(22) + ext id(1)
	assert.Equal(t, byte(ExtHECapabilities), ie[2])
	assert.Len(t, ie, 25)
}

func TestEncodeSequenceControl(t *testing.T) {
	tests := []struct {
		seq        uint16
		lo, hi     byte
	}{
		{100, 0x64, 0x00},
		{4095, 0xFF, 0x00},
		{256, 0x00, 0x00},
		{4096 - 1, 0xFF, 0x00},
	}
	for _, tt := range tests {
		lo, hi := EncodeSequenceControl(tt.seq)
		assert.Equal(t, tt.lo, lo, "seq=%d lo", tt.seq)
		assert.Equal(t, tt.hi, hi, "seq=%d hi", tt.seq)
		assert.Zero(t, hi&0x0F, "low nibble of second sequence byte must be zero")
	}
}
