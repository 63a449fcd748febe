package system

import (
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
)

// OrbitSystem swings orbiting entities around their pivot about world up.
type OrbitSystem struct{}

func NewOrbitSystem() *OrbitSystem {
	return &OrbitSystem{}
}

func (o *OrbitSystem) Update(w *ecs.World) {
	dt := w.DeltaTime()
	ecs.ForEach2(w, component.OrbitComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, orbit *component.Orbit, transform *component.Transform) {
		pivot, ok := ecs.Get(w, ecs.Entity(orbit.Pivot), component.TransformComponent.Kind())
		if !ok {
			return
		}
		transform.RotateAround(pivot.Position, component.WorldUp, orbit.Speed*dt)
	})
}
