package identity

import (
	"math/rand"
	"testing"

	"github.com/emperornerd/GhostWalk/internal/swarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct{ n int }

func (f fakeStore) Count() int { return f.n }

func TestNew_ProducesUnicastMAC(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		d := New(rng, fakeStore{n: 30})
		require.Len(t, d.MAC, 6)
		assert.Zero(t, d.MAC[0]&0x01, "device MAC must be unicast")
	}
}

func TestNew_LegacyNeverSupportsVHTOrHE(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	sawLegacy := false
	for i := 0; i < 2000; i++ {
		d := New(rng, fakeStore{n: 30})
		if d.Generation == swarm.Legacy {
			sawLegacy = true
			assert.False(t, d.Generation.SupportsVHT())
			assert.False(t, d.Generation.SupportsHE())
		}
	}
	assert.True(t, sawLegacy, "expected to draw at least one legacy device in 2000 tries")
}

func TestNew_BSSIDTargetSharesSyntheticPrefix(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		d := New(rng, fakeStore{n: 30})
		require.Len(t, d.BSSIDTarget, 6)
		assert.Equal(t, byte(0x00), d.BSSIDTarget[0])
		assert.Equal(t, byte(0x11), d.BSSIDTarget[1])
		assert.Equal(t, byte(0x32), d.BSSIDTarget[2])
	}
}

func TestNew_NoPreferredSSIDWhenStoreEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	d := New(rng, fakeStore{n: 0})
	assert.Equal(t, swarm.NoPreferredSSID, d.PreferredSSIDIndex)
}

func TestDrawCategory_Distribution(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	counts := map[Category]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[drawCategory(rng)]++
	}
	assert.InDelta(t, 0.40, float64(counts[CategoryApple])/n, 0.03)
	assert.InDelta(t, 0.35, float64(counts[CategorySamsung])/n, 0.03)
	assert.InDelta(t, 0.07, float64(counts[CategoryLegacyIoT])/n, 0.03)
	assert.InDelta(t, 0.18, float64(counts[CategoryModernGeneric])/n, 0.03)
}
