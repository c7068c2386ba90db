package mesh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_DedupAndCapacity(t *testing.T) {
	c := NewCache()
	now := time.Now()
	for i := 0; i < CacheCapacity+5; i++ {
		c.Offer([]byte{byte(i)}, now)
	}
	assert.Equal(t, CacheCapacity, c.Len())

	// Re-offering a cached payload must not evict the oldest entry.
	c.Offer([]byte{byte(CacheCapacity + 4)}, now)
	assert.Equal(t, CacheCapacity, c.Len())
	assert.Equal(t, []byte{5}, c.entries[0].payload)
}

func TestCache_DuplicateRefreshesLastSeen(t *testing.T) {
	c := NewCache()
	now := time.Now()
	payload := []byte{1, 2, 3}
	c.Offer(payload, now)
	later := now.Add(time.Minute)
	c.Offer(payload, later)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, later, c.entries[0].lastSeen)
}

func TestCache_PruneRemovesDecayedEntries(t *testing.T) {
	c := NewCache()
	now := time.Now()
	c.Offer([]byte{9}, now)
	c.Prune(now.Add(DecayTimeout + time.Second))
	assert.Zero(t, c.Len())
}

func TestRecentSenders_ExcludesLocalMAC(t *testing.T) {
	local := [6]byte{1, 1, 1, 1, 1, 1}
	rs := NewRecentSenders(local)
	rs.Observe(local, time.Now())
	assert.False(t, rs.Contains(local))
	assert.Zero(t, rs.Len())
}

func TestRecentSenders_PrunesOldEntries(t *testing.T) {
	local := [6]byte{1, 1, 1, 1, 1, 1}
	rs := NewRecentSenders(local)
	now := time.Now()
	other := [6]byte{2, 2, 2, 2, 2, 2}
	rs.Observe(other, now)
	rs.Prune(now.Add(SenderPruneWindow + time.Second))
	assert.False(t, rs.Contains(other))
}

func TestRelay_DecayClearsDetectionAndCache(t *testing.T) {
	local := [6]byte{0, 0, 0, 0, 0, 0}
	r := NewRelay(local)
	now := time.Now()
	r.AcceptFrame(Frame{SourceMAC: [6]byte{9, 9, 9, 9, 9, 9}, Payload: []byte{1}}, now)
	require.True(t, r.MeshDetected)

	r.DecayTick(now.Add(time.Second))
	assert.True(t, r.MeshDetected, "should not decay before DecayTimeout elapses")

	r.DecayTick(now.Add(DecayTimeout + time.Second))
	assert.False(t, r.MeshDetected)
	assert.Zero(t, r.Cache.Len())
}

func TestRelay_AcceptFrameIgnoresSelfEcho(t *testing.T) {
	local := [6]byte{5, 5, 5, 5, 5, 5}
	r := NewRelay(local)
	r.AcceptFrame(Frame{SourceMAC: local, Payload: []byte{1}}, time.Now())
	assert.False(t, r.MeshDetected)
	assert.Zero(t, r.Cache.Len())
}

func TestRelay_NextInterval(t *testing.T) {
	r := NewRelay([6]byte{})
	assert.Equal(t, StandbyInterval, r.NextInterval())
	r.MeshDetected = true
	assert.Equal(t, ActiveInterval, r.NextInterval())
}
