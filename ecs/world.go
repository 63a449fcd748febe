package ecs

import "github.com/milk9111/wallrunner/ecs/component"

// System updates a world once per scheduled phase.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) {
	f(w)
}

// World owns entities, component stores, the event queue and the clock of
// the phase currently running.
type World struct {
	gens  []generation
	alive []bool
	free  []entityID
	count int

	stores map[component.ComponentID]*SparseSet
	events EventQueue

	delta   float64
	elapsed float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity, reusing freed ids with a bumped
// generation.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		// id 0 is reserved so the zero Entity is never valid.
		if len(w.gens) == 0 {
			w.gens = append(w.gens, 0)
			w.alive = append(w.alive, false)
		}
		id = entityID(len(w.gens))
		w.gens = append(w.gens, 1)
		w.alive = append(w.alive, false)
	}
	w.alive[id] = true
	w.count++
	return makeEntity(id, w.gens[id])
}

// DestroyEntity removes e and all of its components. It returns false when e
// was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	id := e.id()
	for _, store := range w.stores {
		store.removeID(id)
	}
	w.alive[id] = false
	w.gens[id]++
	w.free = append(w.free, id)
	w.count--
	return true
}

// IsAlive reports whether an entity handle is valid in w.
func IsAlive(w *World, e Entity) bool {
	if w == nil || !e.Valid() {
		return false
	}
	id := int(e.id())
	if id <= 0 || id >= len(w.gens) {
		return false
	}
	return w.alive[id] && w.gens[id] == e.generation()
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.count)
	for id := 1; id < len(w.gens); id++ {
		if w.alive[id] {
			out = append(out, makeEntity(entityID(id), w.gens[id]))
		}
	}
	return out
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// DeltaTime is the elapsed time in seconds of the phase currently running:
// the variable frame delta during the frame phase, the fixed step during the
// physics phase.
func (w *World) DeltaTime() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

// Time is the accumulated frame time since the world was created.
func (w *World) Time() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// SetDeltaTime sets the clock for the next system pass.
func (w *World) SetDeltaTime(dt float64) {
	if w == nil {
		return
	}
	w.delta = dt
}

func (w *World) advance(dt float64) {
	w.delta = dt
	w.elapsed += dt
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil {
		return nil
	}
	s := w.stores[id]
	if s == nil && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
