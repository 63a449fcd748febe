package component

import "github.com/go-gl/mathgl/mgl64"

// ForceMode selects how AddForce changes velocity.
type ForceMode int

const (
	// ForceModeForce is a continuous force integrated over the next step.
	ForceModeForce ForceMode = iota
	// ForceModeImpulse changes velocity immediately.
	ForceModeImpulse
)

// RigidBody is a dynamic upright cylinder simulated by the physics system.
// Position is centre of the cylinder on the owning Transform.
type RigidBody struct {
	Mass       float64
	Radius     float64
	Height     float64
	Velocity   mgl64.Vec3
	UseGravity bool
	Drag       float64

	// Force accumulates ForceModeForce contributions until the next step.
	Force mgl64.Vec3
}

// AddForce applies f to the body.
func (rb *RigidBody) AddForce(f mgl64.Vec3, mode ForceMode) {
	if rb == nil {
		return
	}
	switch mode {
	case ForceModeImpulse:
		rb.Velocity = rb.Velocity.Add(f.Mul(1 / rb.mass()))
	default:
		rb.Force = rb.Force.Add(f)
	}
}

func (rb *RigidBody) mass() float64 {
	if rb.Mass <= 0 {
		return 1
	}
	return rb.Mass
}

// InverseMass is 1/Mass with a unit-mass default.
func (rb *RigidBody) InverseMass() float64 {
	return 1 / rb.mass()
}

var RigidBodyComponent = NewComponent[RigidBody]()

// Collider is a static axis-aligned box centred on the owning Transform.
// Triggers report overlaps but never block movement.
type Collider struct {
	Size    mgl64.Vec3
	Layer   Layer
	Trigger bool
}

// Bounds returns the min and max corners for a collider at position.
func (c *Collider) Bounds(position mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	half := c.Size.Mul(0.5)
	return position.Sub(half), position.Add(half)
}

var ColliderComponent = NewComponent[Collider]()
