package system

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
)

const (
	// moveForceScale converts the configured speed into a movement force.
	moveForceScale = 10.0
	defaultFOVMin  = 55.0
	defaultFOVMax  = 65.0
	defaultFOVRate = 50.0
)

// PlayerControllerSystem runs the wall-run state machine. Update is the
// per-frame half (wall and ground probes, drag, jumps, exit-wall countdown);
// Fixed returns the physics-rate half (movement force and wall-run force).
type PlayerControllerSystem struct {
	raycaster Raycaster
}

func NewPlayerControllerSystem(raycaster Raycaster) (*PlayerControllerSystem, error) {
	if raycaster == nil {
		return nil, fmt.Errorf("player controller: raycaster: %w", ErrMissingDependency)
	}
	return &PlayerControllerSystem{raycaster: raycaster}, nil
}

// Fixed returns the system to schedule in the fixed phase.
func (p *PlayerControllerSystem) Fixed() ecs.System {
	return ecs.SystemFunc(p.FixedUpdate)
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	p.forEachPlayer(w, func(e ecs.Entity, motor *component.PlayerMotor, state *component.PlayerState, input *component.Input, rb *component.RigidBody, transform *component.Transform) {
		p.checkForWall(motor, state, transform)

		if !state.WallRunning {
			p.jumpAndDrag(motor, state, input, rb, transform)
		}
		clampHorizontalSpeed(rb, motor.Speed)

		if input.JumpPressed && state.WallRunning {
			wallJump(motor, state, rb, transform)
		}

		if state.ExitingWall {
			if state.ExitWallTimer > 0 {
				state.ExitWallTimer -= dt
			}
			if state.ExitWallTimer <= 0 {
				state.ExitingWall = false
			}
			easeFOV(w, motor, -dt)
		}
	})
}

// FixedUpdate applies movement and wall-run forces at the physics rate.
func (p *PlayerControllerSystem) FixedUpdate(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	p.forEachPlayer(w, func(e ecs.Entity, motor *component.PlayerMotor, state *component.PlayerState, input *component.Input, rb *component.RigidBody, transform *component.Transform) {
		if !state.WallRunning {
			groundMovement(motor, state, input, rb, transform)
		}

		if (state.WallLeft || state.WallRight) && input.Vertical != 0 && p.aboveGround(motor, transform) && !state.ExitingWall {
			state.WallRunning = true
			wallRun(motor, state, rb, transform)
			easeFOV(w, motor, dt)
		} else {
			state.WallRunning = false
			rb.UseGravity = true
		}
	})
}

func (p *PlayerControllerSystem) forEachPlayer(w *ecs.World, fn func(ecs.Entity, *component.PlayerMotor, *component.PlayerState, *component.Input, *component.RigidBody, *component.Transform)) {
	ecs.ForEach4(w,
		component.PlayerMotorComponent.Kind(),
		component.PlayerStateComponent.Kind(),
		component.InputComponent.Kind(),
		component.RigidBodyComponent.Kind(),
		func(e ecs.Entity, motor *component.PlayerMotor, state *component.PlayerState, input *component.Input, rb *component.RigidBody) {
			transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
			if !ok {
				return
			}
			fn(e, motor, state, input, rb, transform)
		})
}

func (p *PlayerControllerSystem) checkForWall(motor *component.PlayerMotor, state *component.PlayerState, transform *component.Transform) {
	right := transform.Right()
	hit, ok := p.raycaster.Raycast(transform.Position, right, motor.WallCheckDistance, motor.WallMask)
	state.WallRight = ok
	state.RightWallNormal = hit.Normal
	hit, ok = p.raycaster.Raycast(transform.Position, right.Mul(-1), motor.WallCheckDistance, motor.WallMask)
	state.WallLeft = ok
	state.LeftWallNormal = hit.Normal
}

func (p *PlayerControllerSystem) jumpAndDrag(motor *component.PlayerMotor, state *component.PlayerState, input *component.Input, rb *component.RigidBody, transform *component.Transform) {
	_, state.Grounded = p.raycaster.Raycast(transform.Position, component.WorldUp.Mul(-1), motor.GroundProbeLength, motor.GroundMask)

	if state.Grounded {
		rb.Drag = motor.GroundDrag
	} else {
		rb.Drag = 0
	}

	if input.JumpPressed && state.Grounded {
		rb.AddForce(transform.Up().Mul(motor.JumpForce), component.ForceModeImpulse)
	}
}

// aboveGround reports whether no ground lies within the minimum wall-run
// height below the player.
func (p *PlayerControllerSystem) aboveGround(motor *component.PlayerMotor, transform *component.Transform) bool {
	_, hit := p.raycaster.Raycast(transform.Position, component.WorldUp.Mul(-1), motor.MinJumpHeight, motor.GroundMask)
	return !hit
}

func groundMovement(motor *component.PlayerMotor, state *component.PlayerState, input *component.Input, rb *component.RigidBody, transform *component.Transform) {
	move := transform.Right().Mul(input.Horizontal).Add(transform.Forward().Mul(input.Vertical))
	if move.Len() == 0 {
		return
	}
	force := move.Normalize().Mul(motor.Speed * moveForceScale)
	if !state.Grounded {
		force = force.Mul(motor.AirFriction)
	}
	rb.AddForce(force, component.ForceModeForce)
}

func wallRun(motor *component.PlayerMotor, state *component.PlayerState, rb *component.RigidBody, transform *component.Transform) {
	rb.UseGravity = false
	rb.Velocity = mgl64.Vec3{rb.Velocity.X(), 0, rb.Velocity.Z()}

	forward := transform.Forward()
	wallForward := WallForward(state.WallNormal(), transform.Up(), forward)
	rb.AddForce(wallForward.Mul(motor.WallRunForce), component.ForceModeForce)
}

// WallForward is the direction along a wall with the given normal, picking
// the sense closest to forward.
func WallForward(normal, up, forward mgl64.Vec3) mgl64.Vec3 {
	wallForward := normal.Cross(up)
	if forward.Sub(wallForward).Len() > forward.Add(wallForward).Len() {
		wallForward = wallForward.Mul(-1)
	}
	return wallForward
}

func wallJump(motor *component.PlayerMotor, state *component.PlayerState, rb *component.RigidBody, transform *component.Transform) {
	state.ExitingWall = true
	state.ExitWallTimer = motor.ExitWallTime

	force := transform.Up().Mul(motor.WallJumpForce).Add(state.WallNormal().Mul(motor.WallJumpSideForce))
	rb.Velocity = mgl64.Vec3{rb.Velocity.X(), 0, rb.Velocity.Z()}
	rb.AddForce(force, component.ForceModeImpulse)
}

// clampHorizontalSpeed limits the XZ speed, keeping vertical velocity.
func clampHorizontalSpeed(rb *component.RigidBody, speed float64) {
	xz := mgl64.Vec3{rb.Velocity.X(), 0, rb.Velocity.Z()}
	if xz.Len() <= speed || xz.Len() == 0 {
		return
	}
	xz = xz.Normalize().Mul(speed)
	rb.Velocity = mgl64.Vec3{xz.X(), rb.Velocity.Y(), xz.Z()}
}

// easeFOV moves the player camera's field of view by the motor's rate times
// dt: widening for positive dt, narrowing for negative. The result stays
// inside the motor's FOV range.
func easeFOV(w *ecs.World, motor *component.PlayerMotor, dt float64) {
	cam, ok := ecs.Get(w, ecs.Entity(motor.Camera), component.CameraComponent.Kind())
	if !ok {
		return
	}
	lo, hi, rate := motor.FOVMin, motor.FOVMax, motor.FOVRate
	if lo <= 0 {
		lo = defaultFOVMin
	}
	if hi <= 0 {
		hi = defaultFOVMax
	}
	if rate <= 0 {
		rate = defaultFOVRate
	}
	fov := cam.FOV + rate*dt
	if fov > hi {
		fov = hi
	}
	if fov < lo {
		fov = lo
	}
	cam.FOV = fov
}
