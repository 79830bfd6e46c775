// Package store provides the in-process cache of resolved Linear identifiers.
// Entries are grouped by kind and share a single refresh timestamp: once the
// TTL has elapsed since the last write, every kind is treated as stale at once.
package store

import (
	"sync"
	"time"
)

// DefaultTTL is how long cached identifiers are trusted after the last refresh.
const DefaultTTL = 5 * time.Minute

// Kind identifies which identifier namespace an entry belongs to.
type Kind string

const (
	KindTeam    Kind = "team"
	KindProject Kind = "project"
	KindUser    Kind = "user"
	KindState   Kind = "state"
	KindLabel   Kind = "label"
)

// Kinds lists every cached kind in a stable order.
var Kinds = []Kind{KindTeam, KindProject, KindUser, KindState, KindLabel}

// Key addresses one cache entry. Scope is the team ID for team-scoped kinds
// and empty for global ones, so equal names in different teams never collide.
type Key struct {
	Scope string
	Name  string
}

// Global returns an unscoped key.
func Global(name string) Key {
	return Key{Name: name}
}

// Scoped returns a key inside the given team scope.
func Scoped(teamID, name string) Key {
	return Key{Scope: teamID, Name: name}
}

// String renders the key as "scope:name", or just the name when unscoped.
func (k Key) String() string {
	if k.Scope == "" {
		return k.Name
	}
	return k.Scope + ":" + k.Name
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Entries     map[Kind]int
	LastRefresh time.Time
	Stale       bool
	TTL         time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source used for staleness checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is the identifier cache. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	// kind -> key -> backend ID
	entries map[Kind]map[Key]string

	// Shared by every kind; zero means never refreshed
	lastRefresh time.Time

	ttl time.Duration
	now func() time.Time
}

// New creates an empty Store whose first staleness check reports stale.
func New(opts ...Option) *Store {
	s := &Store{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.entries = emptyEntries()
	return s
}

func emptyEntries() map[Kind]map[Key]string {
	entries := make(map[Kind]map[Key]string, len(Kinds))
	for _, kind := range Kinds {
		entries[kind] = make(map[Key]string)
	}
	return entries
}

// TTL returns the configured time-to-live.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// IsStale reports whether the whole cache has outlived its TTL.
func (s *Store) IsStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isStaleLocked()
}

func (s *Store) isStaleLocked() bool {
	return s.now().Sub(s.lastRefresh) > s.ttl
}

// Get returns the cached ID for key. It does not consult staleness; callers
// decide whether a stale cache may be trusted.
func (s *Store) Get(kind Kind, key Key) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byKey, ok := s.entries[kind]
	if !ok {
		return "", false
	}
	id, ok := byKey[key]
	return id, ok
}

// Put stores id under key and resets the shared refresh timestamp.
func (s *Store) Put(kind Kind, key Key, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.entries[kind]
	if !ok {
		byKey = make(map[Key]string)
		s.entries[kind] = byKey
	}
	byKey[key] = id
	s.lastRefresh = s.now()
}

// LastRefresh returns the time of the last write, or the zero time.
func (s *Store) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// Len returns the number of entries of the given kind.
func (s *Store) Len(kind Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[kind])
}

// Stats returns entry counts and freshness information.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[Kind]int, len(s.entries))
	for kind, byKey := range s.entries {
		counts[kind] = len(byKey)
	}
	return Stats{
		Entries:     counts,
		LastRefresh: s.lastRefresh,
		Stale:       s.isStaleLocked(),
		TTL:         s.ttl,
	}
}

// Clear drops every entry and resets the refresh timestamp so the next
// lookup of any kind goes to the remote source.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = emptyEntries()
	s.lastRefresh = time.Time{}
}
