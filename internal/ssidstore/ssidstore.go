// Package ssidstore holds the pool of SSID strings virtual devices probe
// for and beacon under: a seed list of realistic public network names plus
// names learned by eavesdropping on nearby probe requests, capped and
// cycled the way the teacher's mock data generator cycles its seeded SSID
// list.
package ssidstore

import (
	"math/rand"
	"sync"
	"time"
)

// seed is the starting set of plausible public/home SSIDs.
var seed = []string{
	"xfinitywifi", "ATT-WiFi", "Spectrum Mobile", "Starbucks WiFi", "Marriott_GUEST",
	"Hilton Honors", "Home", "NETGEAR24", "Linksys", "TP-Link_Guest",
	"eduroam", "Airport Free WiFi", "McDonalds Free WiFi", "Target Guest",
	"Walmart WiFi", "Chick-fil-A WiFi", "Verizon_5G_Home", "CenturyLink8842",
	"ASUS_Guest", "FBI Surveillance Van", "HP-Print-4A-LaserJet", "Guest Network",
	"MyWiFi", "TELUS1234", "Rogers_Home", "BELL123", "AndroidAP", "iPhone",
	"Comcast_Xfinity", "DIRECT-roku-TV",
}

// MaxLearned is the documented default cap on eavesdropped SSIDs a store
// keeps when the caller has no more specific configuration, within §3/§6's
// 100-200 default range; once full, a uniformly random learned entry is
// evicted to make room for a new one no more often than LearnInterval.
const MaxLearned = 150

// LearnInterval is the minimum spacing between learned-SSID replacements
// once the learned set is at capacity.
const LearnInterval = 30 * time.Second

// Store is the SSID pool. It is safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	all        []string
	seen       map[string]struct{}
	learnedAt  []time.Time // parallel to the learned tail of all[], same order
	seedLen    int
	maxLearned int
	lastLearn  time.Time
	rng        *rand.Rand
}

// New builds a store pre-populated with the seed SSID list, capping
// eavesdropped learning at maxLearned entries.
func New(maxLearned int) *Store {
	s := &Store{
		all:        append([]string(nil), seed...),
		seen:       make(map[string]struct{}, len(seed)+maxLearned),
		seedLen:    len(seed),
		maxLearned: maxLearned,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, name := range seed {
		s.seen[name] = struct{}{}
	}
	return s
}

// MaxLearned returns this store's configured learned-SSID cap.
func (s *Store) MaxLearned() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxLearned
}

// Count returns the number of SSIDs currently held.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.all)
}

// Contains reports whether name is already known to the store.
func (s *Store) Contains(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[name]
	return ok
}

// Get returns the SSID at index, or "" if out of range.
func (s *Store) Get(index int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.all) {
		return ""
	}
	return s.all[index]
}

// RandomIndex returns a uniformly random valid index, or -1 if the store
// is empty.
func (s *Store) RandomIndex(rng *rand.Rand) int {
	s.mu.Lock()
	n := len(s.all)
	s.mu.Unlock()
	if n == 0 {
		return -1
	}
	return rng.Intn(n)
}

// Offer records a name overheard in a probe request as a candidate for
// learning. Empty names (wildcard probes) are ignored. Below capacity the
// name is admitted immediately; at capacity it replaces a uniformly random
// learned entry, but no more often than LearnInterval, so a burst of probes
// can't thrash the learned set.
func (s *Store) Offer(name string, now time.Time) {
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[name]; ok {
		return
	}

	learnedCount := len(s.all) - s.seedLen
	if learnedCount < s.maxLearned {
		s.all = append(s.all, name)
		s.learnedAt = append(s.learnedAt, now)
		s.seen[name] = struct{}{}
		s.lastLearn = now
		return
	}

	if now.Sub(s.lastLearn) < LearnInterval {
		return
	}

	// Replace a uniformly random non-seed slot rather than always the
	// oldest, so a single long-lived learned SSID can't monopolize a slot.
	victim := s.seedLen + s.rng.Intn(learnedCount)
	delete(s.seen, s.all[victim])
	s.all[victim] = name
	s.learnedAt[victim-s.seedLen] = now
	s.seen[name] = struct{}{}
	s.lastLearn = now
}
