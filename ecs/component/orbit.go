package component

// Orbit rotates an entity around the current position of Pivot about world
// up at Speed degrees per second.
type Orbit struct {
	Pivot uint64
	Speed float64
}

var OrbitComponent = NewComponent[Orbit]()
