package broadcast

import "sync"

// Registry is the set of currently deliverable subscribers.
// Safe for concurrent use. The lock is only held for map mutation and
// snapshot copies, never while a consumer waits for messages.
type Registry struct {
	mu      sync.RWMutex
	members map[*Subscriber]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		members: make(map[*Subscriber]struct{}),
	}
}

// Register adds s to the set. Registering nil is a no-op.
func (r *Registry) Register(s *Subscriber) {
	if s == nil {
		return
	}
	r.mu.Lock()
	r.members[s] = struct{}{}
	r.mu.Unlock()
}

// Unregister removes s from the set and reports whether it was present.
// Removing an absent subscriber is a no-op.
func (r *Registry) Unregister(s *Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[s]; !ok {
		return false
	}
	delete(r.members, s)
	return true
}

// Snapshot returns a copy of the current members in no particular order.
func (r *Registry) Snapshot() []*Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := make([]*Subscriber, 0, len(r.members))
	for s := range r.members {
		subs = append(subs, s)
	}
	return subs
}

// Contains reports whether s is currently registered.
func (r *Registry) Contains(s *Subscriber) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[s]
	return ok
}

// Len returns the number of registered subscribers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// drain removes and returns every member.
func (r *Registry) drain() []*Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := make([]*Subscriber, 0, len(r.members))
	for s := range r.members {
		subs = append(subs, s)
	}
	clear(r.members)
	return subs
}
