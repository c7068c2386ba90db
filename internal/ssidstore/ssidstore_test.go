package ssidstore

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SeededWithPublicNames(t *testing.T) {
	s := New(MaxLearned)
	assert.Equal(t, len(seed), s.Count())
	assert.True(t, s.Contains("xfinitywifi"))
}

func TestOffer_IgnoresWildcard(t *testing.T) {
	s := New(MaxLearned)
	before := s.Count()
	s.Offer("", time.Now())
	assert.Equal(t, before, s.Count())
}

func TestOffer_LearnsNewName(t *testing.T) {
	s := New(MaxLearned)
	before := s.Count()
	s.Offer("SomeNeighborsRouter", time.Now())
	assert.Equal(t, before+1, s.Count())
	assert.True(t, s.Contains("SomeNeighborsRouter"))
}

func TestOffer_CapsAtMaxLearned(t *testing.T) {
	s := New(MaxLearned)
	now := time.Now()
	for i := 0; i < MaxLearned+10; i++ {
		s.Offer(randName(i), now)
		now = now.Add(LearnInterval + time.Second)
	}
	assert.Equal(t, len(seed)+MaxLearned, s.Count())
}

func TestOffer_RespectsLearnInterval(t *testing.T) {
	s := New(MaxLearned)
	now := time.Now()
	for i := 0; i < MaxLearned; i++ {
		s.Offer(randName(i), now)
	}
	full := s.Count()
	s.Offer("tooSoon", now.Add(time.Millisecond))
	assert.Equal(t, full, s.Count(), "replacement should not happen before LearnInterval elapses")
	assert.False(t, s.Contains("tooSoon"), "replacement should not happen before LearnInterval elapses")
}

func TestRandomIndex_WithinBounds(t *testing.T) {
	s := New(MaxLearned)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		idx := s.RandomIndex(rng)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, s.Count())
		require.NotEmpty(t, s.Get(idx))
	}
}

func randName(i int) string {
	return "learned-" + string(rune('a'+i%26)) + string(rune('A'+(i/26)%26))
}

func TestMaxLearned_ReflectsConstructorArgument(t *testing.T) {
	s := New(10)
	assert.Equal(t, 10, s.MaxLearned())
}

func TestOffer_ReplacementStaysWithinLearnedRange(t *testing.T) {
	s := New(5)
	now := time.Now()
	for i := 0; i < 5; i++ {
		s.Offer(randName(i), now)
	}
	full := s.Count()

	now = now.Add(LearnInterval + time.Second)
	s.Offer("replacement", now)

	assert.Equal(t, full, s.Count(), "replacement must not grow the learned set")
	assert.True(t, s.Contains("replacement"))
	for i := 0; i < len(seed); i++ {
		assert.Equal(t, seed[i], s.Get(i), "seed slots must never be evicted")
	}
}
