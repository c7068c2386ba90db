package radio

import (
	"math/rand"
	"testing"

	"github.com/emperornerd/GhostWalk/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated_TXRecordsFrames(t *testing.T) {
	s := NewSimulated(rand.New(rand.NewSource(1)))
	require.NoError(t, s.TX80211("wlan0", []byte{1, 2, 3}, false))
	require.NoError(t, s.TX80211("wlan0", []byte{4, 5, 6}, false))
	frames := s.RecentTX()
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{1, 2, 3}, frames[0])
}

func TestSimulated_DeliverInvokesInstalledCallback(t *testing.T) {
	s := NewSimulated(rand.New(rand.NewSource(2)))
	var got []byte
	require.NoError(t, s.SetPromiscuousRxCallback(func(payload []byte, meta ports.RxMetadata) {
		got = payload
	}))
	s.Deliver([]byte{9, 9}, ports.RxMetadata{Type: ports.FrameMgmt})
	assert.Equal(t, []byte{9, 9}, got)
}

func TestSimulated_SetChannelAndTXPower(t *testing.T) {
	s := NewSimulated(rand.New(rand.NewSource(3)))
	require.NoError(t, s.SetChannel(36, ports.SecondaryChannelNone))
	assert.Equal(t, 36, s.Channel())
	require.NoError(t, s.SetMaxTXPower(80))
	assert.Equal(t, 80, s.TXPower())
}

func TestHeapStats_OverrideTakesPrecedence(t *testing.T) {
	h := NewHeapStats()
	v := 14000
	h.SetOverride(&v)
	assert.Equal(t, 14000, h.FreeBytes())
	h.SetOverride(nil)
	assert.NotEqual(t, 0, h.FreeBytes())
}
