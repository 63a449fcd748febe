package component

import "github.com/go-gl/mathgl/mgl64"

// ScriptedMotion offsets an entity from Origin by the result of a tengo
// script evaluated every frame.
type ScriptedMotion struct {
	Script  string
	Origin  mgl64.Vec3
	Params  map[string]float64
	Elapsed float64
	Failed  bool
}

var ScriptedMotionComponent = NewComponent[ScriptedMotion]()
