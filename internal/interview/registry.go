package interview

import (
	"sync"
	"sync/atomic"
	"time"
)

type registryEntry struct {
	machine  *Machine
	lastUsed atomic.Int64 // unix nanos
}

// Registry holds one lazily built machine per owner and the hub their
// events are published to.
type Registry struct {
	deps      Deps
	snapshots func(ownerID string) SnapshotStore
	opts      []Option
	hub       *Hub
	machines  sync.Map // owner id -> *registryEntry
	now       func() time.Time
}

// NewRegistry builds machines from deps, scoping the snapshot slot to each
// owner through snapshots.
func NewRegistry(deps Deps, snapshots func(ownerID string) SnapshotStore, opts ...Option) *Registry {
	return &Registry{
		deps:      deps,
		snapshots: snapshots,
		opts:      opts,
		hub:       NewHub(0),
		now:       time.Now,
	}
}

func (r *Registry) Get(ownerID string) *Machine {
	if v, ok := r.machines.Load(ownerID); ok {
		e := v.(*registryEntry)
		e.lastUsed.Store(r.now().UnixNano())
		return e.machine
	}
	deps := r.deps
	if r.snapshots != nil {
		deps.Snapshots = r.snapshots(ownerID)
	}
	opts := append(append([]Option(nil), r.opts...), WithNotifier(func(ev Event) {
		r.hub.Publish(ownerID, ev)
	}))
	e := &registryEntry{machine: New(deps, ownerID, opts...)}
	e.lastUsed.Store(r.now().UnixNano())
	v, _ := r.machines.LoadOrStore(ownerID, e)
	return v.(*registryEntry).machine
}

// Evict closes and forgets ownerID's machine. The snapshot slot is left in
// place, so a later Get can offer to resume it.
func (r *Registry) Evict(ownerID string) bool {
	v, ok := r.machines.LoadAndDelete(ownerID)
	if !ok {
		return false
	}
	v.(*registryEntry).machine.Close()
	return true
}

// EvictIdle evicts every machine not fetched within maxIdle and returns how
// many were removed.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle).UnixNano()
	evicted := 0
	r.machines.Range(func(k, v any) bool {
		e := v.(*registryEntry)
		if e.lastUsed.Load() < cutoff && r.machines.CompareAndDelete(k, v) {
			e.machine.Close()
			evicted++
		}
		return true
	})
	return evicted
}

// Len reports how many machines are held in memory.
func (r *Registry) Len() int {
	n := 0
	r.machines.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Subscribe streams the events of ownerID's machine.
func (r *Registry) Subscribe(ownerID string) (<-chan Event, func()) {
	return r.hub.Subscribe(ownerID)
}

// Close stops every machine's countdown.
func (r *Registry) Close() {
	r.machines.Range(func(_, v any) bool {
		v.(*registryEntry).machine.Close()
		return true
	})
}
