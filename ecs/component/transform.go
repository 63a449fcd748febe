package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	WorldUp      = mgl64.Vec3{0, 1, 0}
	WorldRight   = mgl64.Vec3{1, 0, 0}
	WorldForward = mgl64.Vec3{0, 0, 1}
)

// Transform places an entity in the world. Axes follow a Y-up, Z-forward,
// X-right convention.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Orientation returns the rotation, treating the zero quaternion as identity.
func (t *Transform) Orientation() mgl64.Quat {
	if t == nil || (t.Rotation.W == 0 && t.Rotation.V.Len() == 0) {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

func (t *Transform) Forward() mgl64.Vec3 { return t.Orientation().Rotate(WorldForward) }
func (t *Transform) Right() mgl64.Vec3   { return t.Orientation().Rotate(WorldRight) }
func (t *Transform) Up() mgl64.Vec3      { return t.Orientation().Rotate(WorldUp) }

// Rotate turns the transform by degrees about a local axis.
func (t *Transform) Rotate(axis mgl64.Vec3, degrees float64) {
	if t == nil || degrees == 0 {
		return
	}
	q := mgl64.QuatRotate(mgl64.DegToRad(degrees), axis.Normalize())
	t.Rotation = t.Orientation().Mul(q).Normalize()
}

// RotateAround moves the transform around point by degrees about a world
// axis, turning its orientation by the same amount.
func (t *Transform) RotateAround(point, axis mgl64.Vec3, degrees float64) {
	if t == nil || degrees == 0 {
		return
	}
	q := mgl64.QuatRotate(mgl64.DegToRad(degrees), axis.Normalize())
	t.Position = point.Add(q.Rotate(t.Position.Sub(point)))
	t.Rotation = q.Mul(t.Orientation()).Normalize()
}

// Yaw returns the heading in degrees, positive turning right.
func (t *Transform) Yaw() float64 {
	f := t.Forward()
	return mgl64.RadToDeg(math.Atan2(f.X(), f.Z()))
}

var TransformComponent = NewComponent[Transform]()
