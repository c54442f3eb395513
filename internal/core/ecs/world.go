package ecs

// World owns the entity pool, the registered stores and the queue of
// entities to destroy at the end of the tick.
type World struct {
	pool    *Pool
	stores  []Removable
	pending []EntityID
}

func NewWorld() *World {
	return &World{pool: NewPool()}
}

// Register adds a store to be cleared when entities are destroyed.
func (w *World) Register(s Removable) { w.stores = append(w.stores, s) }

func (w *World) CreateEntity() EntityID { return w.pool.Create() }

func (w *World) Alive(id EntityID) bool { return w.pool.Alive(id) }

// MarkForDestruction queues id for the next FlushDestroyQueue.
func (w *World) MarkForDestruction(id EntityID) {
	w.pending = append(w.pending, id)
}

// Pending reports how many entities await destruction.
func (w *World) Pending() int { return len(w.pending) }

// FlushDestroyQueue removes queued entities from every store and frees
// their IDs. Duplicate and stale entries are ignored.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.pending {
		if !w.pool.Alive(id) {
			continue
		}
		for _, s := range w.stores {
			s.Remove(id)
		}
		w.pool.Destroy(id)
	}
	w.pending = w.pending[:0]
}
