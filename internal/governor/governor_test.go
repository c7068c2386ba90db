package governor

import (
	"math/rand"
	"testing"

	"github.com/emperornerd/GhostWalk/internal/swarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct{}

func (fakeStore) Count() int { return 10 }

func buildPools(t *testing.T, active, dormant int) *swarm.Pools {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	p := swarm.NewPools(active, dormant, rng, fakeStore{})
	p.Initialize(func() bool { return true })
	for len(p.Dormant) < dormant {
		p.RotateOnce(false)
	}
	return p
}

func TestTick_HeapPressureScenario(t *testing.T) {
	p := buildPools(t, 1000, 2000)
	beforeDormant := len(p.Dormant)
	beforeActive := len(p.Active)

	g := New()
	lowMemory, acceptLearned := g.Tick(14000, p)

	require.True(t, lowMemory)
	require.False(t, acceptLearned)
	assert.GreaterOrEqual(t, beforeDormant-len(p.Dormant), int(float64(beforeDormant)*0.29))
	assert.GreaterOrEqual(t, beforeActive-len(p.Active), int(float64(beforeActive)*0.14))
}

func TestTick_ClearsLowMemoryWhenRecovered(t *testing.T) {
	p := buildPools(t, 100, 100)
	g := New()
	g.Tick(10000, p)
	require.True(t, g.LowMemory)
	g.Tick(30000, p)
	assert.False(t, g.LowMemory)
}

func TestTick_NoPruneAboveThreshold(t *testing.T) {
	p := buildPools(t, 100, 100)
	beforeDormant := len(p.Dormant)
	beforeActive := len(p.Active)
	g := New()
	lowMemory, acceptLearned := g.Tick(50000, p)
	assert.False(t, lowMemory)
	assert.True(t, acceptLearned)
	assert.Equal(t, beforeDormant, len(p.Dormant))
	assert.Equal(t, beforeActive, len(p.Active))
}
