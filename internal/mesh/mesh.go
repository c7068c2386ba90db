// Package mesh implements the optional cooperative-mesh relay: a
// deduplicated cache of observed Vendor-Specific action frames from a
// single hardcoded OUI, a recent-senders set, and the dynamic-interval
// listen policy that drives how often the scheduler steals the channel to
// check for them.
package mesh

import "time"

// EspressifOUI is the only Vendor-Specific OUI the relay will accept,
// extract, cache, or rebroadcast; anything else is dropped on the floor
// to avoid amplifying unrelated traffic.
var EspressifOUI = [3]byte{0x18, 0xFE, 0x34}

// Channel is the fixed channel the mesh listen window always uses.
const Channel = 1

// Interval policy (§4.8).
const (
	ActiveInterval    = 600 * time.Second
	StandbyInterval   = 20 * time.Second
	CheckDuration     = 100 * time.Millisecond
	DecayTimeout      = 600 * time.Second
	SenderPruneWindow = 300 * time.Second
)

// CacheCapacity is the maximum number of distinct payloads MeshCache
// retains; oldest entries are evicted first.
const CacheCapacity = 40

// RebroadcastProbability is the per-slot chance of retransmitting a cached
// message verbatim, gated to 2.4 GHz channel 1 by the scheduler.
const RebroadcastProbability = 0.05

// cacheEntry is one deduplicated mesh payload.
type cacheEntry struct {
	payload  []byte
	lastSeen time.Time
}

// Cache is the FIFO, deduplicated-by-exact-bytes mesh payload cache.
type Cache struct {
	entries []cacheEntry
}

// NewCache returns an empty cache.
func NewCache() *Cache { return &Cache{} }

// Len reports the number of cached payloads.
func (c *Cache) Len() int { return len(c.entries) }

// Offer inserts payload if not already present (refreshing last_seen on a
// duplicate), evicting the oldest entry first if at capacity.
func (c *Cache) Offer(payload []byte, now time.Time) {
	for i := range c.entries {
		if bytesEqual(c.entries[i].payload, payload) {
			c.entries[i].lastSeen = now
			return
		}
	}
	if len(c.entries) >= CacheCapacity {
		c.entries = c.entries[1:]
	}
	stored := append([]byte(nil), payload...)
	c.entries = append(c.entries, cacheEntry{payload: stored, lastSeen: now})
}

// Random returns a uniformly random cached payload via idx (caller
// supplies an index already reduced into [0, Len())), or nil if empty.
func (c *Cache) Random(idx int) []byte {
	if len(c.entries) == 0 {
		return nil
	}
	return c.entries[idx%len(c.entries)].payload
}

// Clear empties the cache (used on decay).
func (c *Cache) Clear() { c.entries = nil }

// Prune drops entries whose last_seen is older than DecayTimeout.
func (c *Cache) Prune(now time.Time) {
	kept := c.entries[:0]
	for _, e := range c.entries {
		if now.Sub(e.lastSeen) <= DecayTimeout {
			kept = append(kept, e)
		}
	}
	c.entries = kept
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// senderEntry is one observed mesh-channel transmitter.
type senderEntry struct {
	mac      [6]byte
	lastSeen time.Time
}

// RecentSenders tracks MACs observed on the mesh channel, excluding the
// local device's own MAC (self-echo suppression).
type RecentSenders struct {
	localMAC [6]byte
	entries  []senderEntry
}

// NewRecentSenders returns a tracker that will always reject localMAC.
func NewRecentSenders(localMAC [6]byte) *RecentSenders {
	return &RecentSenders{localMAC: localMAC}
}

// Observe records mac as seen at now, unless it is the local MAC.
func (r *RecentSenders) Observe(mac [6]byte, now time.Time) {
	if mac == r.localMAC {
		return
	}
	for i := range r.entries {
		if r.entries[i].mac == mac {
			r.entries[i].lastSeen = now
			return
		}
	}
	r.entries = append(r.entries, senderEntry{mac: mac, lastSeen: now})
}

// Contains reports whether mac is currently tracked.
func (r *RecentSenders) Contains(mac [6]byte) bool {
	for _, e := range r.entries {
		if e.mac == mac {
			return true
		}
	}
	return false
}

// Len reports the number of tracked senders.
func (r *RecentSenders) Len() int { return len(r.entries) }

// Prune drops entries older than SenderPruneWindow.
func (r *RecentSenders) Prune(now time.Time) {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if now.Sub(e.lastSeen) <= SenderPruneWindow {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

// Relay bundles the cache, sender set, and detection state the scheduler
// drives through its listen-window ticks.
type Relay struct {
	Cache         *Cache
	Senders       *RecentSenders
	MeshDetected  bool
	LastPacketAt  time.Time
}

// NewRelay constructs a relay with the given local MAC for self-echo
// suppression.
func NewRelay(localMAC [6]byte) *Relay {
	return &Relay{
		Cache:   NewCache(),
		Senders: NewRecentSenders(localMAC),
	}
}

// NextInterval returns how long to wait before the next listen check,
// per the dynamic policy: short while undetected, long once a mesh peer
// has been confirmed.
func (r *Relay) NextInterval() time.Duration {
	if r.MeshDetected {
		return ActiveInterval
	}
	return StandbyInterval
}

// Frame is a mesh Action frame accepted by the passive sniffer's mesh
// filter: the OUI and category code have already been validated, and the
// source MAC has been extracted from frame offset 10.
type Frame struct {
	SourceMAC [6]byte
	Payload   []byte
}

// AcceptFrame runs §4.8 step 3 for a single observed frame: self-echo
// suppression, sender tracking, cache dedup, and detection-state update.
func (r *Relay) AcceptFrame(f Frame, now time.Time) {
	if f.SourceMAC == r.Senders.localMAC {
		return
	}
	r.Senders.Observe(f.SourceMAC, now)
	r.Cache.Offer(f.Payload, now)
	r.MeshDetected = true
	r.LastPacketAt = now
}

// DecayTick runs §4.8's decay rule: once MeshDetected and no frame has
// arrived within DecayTimeout, clear detection state and empty the cache.
func (r *Relay) DecayTick(now time.Time) {
	if r.MeshDetected && now.Sub(r.LastPacketAt) > DecayTimeout {
		r.MeshDetected = false
		r.Cache.Clear()
	}
	r.Senders.Prune(now)
	r.Cache.Prune(now)
}
