// Package registry holds live in-memory sessions with TTL expiry, a global
// size bound and a per-owner bound.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Registry maps session ids to values owned by a user. When an owner starts
// more than perOwner sessions, that owner's oldest session is evicted, so one
// user cannot push other users' sessions out of the shared bound.
//
// The eviction callback runs on every removal (explicit, expiry, capacity or
// purge) and must not call back into the Registry.
type Registry[V any] struct {
	perOwner int
	lru      *expirable.LRU[uuid.UUID, V]

	mu     sync.Mutex
	owned  map[uuid.UUID][]uuid.UUID // owner -> session ids, oldest first
	owners map[uuid.UUID]uuid.UUID   // session id -> owner
}

// New creates a registry. size bounds all sessions, perOwner bounds the
// sessions of one owner; zero disables either bound.
func New[V any](size, perOwner int, ttl time.Duration, onEvict func(id uuid.UUID, v V)) *Registry[V] {
	r := &Registry[V]{
		perOwner: perOwner,
		owned:    make(map[uuid.UUID][]uuid.UUID),
		owners:   make(map[uuid.UUID]uuid.UUID),
	}
	r.lru = expirable.NewLRU[uuid.UUID, V](size, func(id uuid.UUID, v V) {
		r.forget(id)
		if onEvict != nil {
			onEvict(id, v)
		}
	}, ttl)
	return r
}

// Add stores a new session for owner, evicting the owner's oldest sessions
// beyond the per-owner bound.
func (r *Registry[V]) Add(owner, id uuid.UUID, v V) {
	var evict []uuid.UUID

	r.mu.Lock()
	ids := r.owned[owner]
	for r.perOwner > 0 && len(ids) >= r.perOwner {
		evict = append(evict, ids[0])
		ids = ids[1:]
	}
	r.owned[owner] = append(ids, id)
	r.owners[id] = owner
	r.mu.Unlock()

	// The LRU invokes the callback under its own lock; r.mu must be free.
	for _, old := range evict {
		r.lru.Remove(old)
	}
	r.lru.Add(id, v)
}

// Get returns a live session and restarts its TTL.
func (r *Registry[V]) Get(id uuid.UUID) (V, bool) {
	v, ok := r.lru.Get(id)
	if ok {
		r.lru.Add(id, v)
	}
	return v, ok
}

// Peek returns a live session without touching its TTL or recency.
func (r *Registry[V]) Peek(id uuid.UUID) (V, bool) {
	return r.lru.Peek(id)
}

// Remove evicts a session.
func (r *Registry[V]) Remove(id uuid.UUID) {
	r.lru.Remove(id)
}

// Purge evicts every session.
func (r *Registry[V]) Purge() {
	r.lru.Purge()
}

// Len reports the number of live sessions.
func (r *Registry[V]) Len() int {
	return r.lru.Len()
}

// Owned reports how many live sessions owner holds.
func (r *Registry[V]) Owned(owner uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owned[owner])
}

func (r *Registry[V]) forget(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.owners[id]
	if !ok {
		return
	}
	delete(r.owners, id)

	ids := r.owned[owner]
	for i, sid := range ids {
		if sid == id {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(r.owned, owner)
		return
	}
	r.owned[owner] = ids
}
