package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
)

// fakeRaycaster answers probes for a player with identity orientation:
// rays along +X hit Right, rays along -X hit Left, downward rays hit ground
// at GroundDistance (a negative distance means no ground).
type fakeRaycaster struct {
	Right          *RaycastHit
	Left           *RaycastHit
	GroundDistance float64
	calls          int
}

func (f *fakeRaycaster) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask component.Layer) (RaycastHit, bool) {
	f.calls++
	switch {
	case dir.Y() < -0.5:
		if f.GroundDistance < 0 || f.GroundDistance > maxDist {
			return RaycastHit{}, false
		}
		return RaycastHit{Distance: f.GroundDistance, Normal: component.WorldUp, Layer: component.LayerGround}, true
	case dir.X() > 0.5 && f.Right != nil:
		if f.Right.Distance > maxDist {
			return RaycastHit{}, false
		}
		return *f.Right, true
	case dir.X() < -0.5 && f.Left != nil:
		if f.Left.Distance > maxDist {
			return RaycastHit{}, false
		}
		return *f.Left, true
	}
	return RaycastHit{}, false
}

type fakeChannel struct {
	volume  float64
	playing bool
	plays   int
	closes  int
}

func (c *fakeChannel) Volume() float64          { return c.volume }
func (c *fakeChannel) SetVolume(volume float64) { c.volume = volume }
func (c *fakeChannel) Play()                    { c.playing = true; c.plays++ }
func (c *fakeChannel) Pause()                   { c.playing = false }
func (c *fakeChannel) IsPlaying() bool          { return c.playing }
func (c *fakeChannel) Close() error             { c.playing = false; c.closes++; return nil }

type fakeLoader struct {
	calls int
}

func (l *fakeLoader) LoadNextLevel(w *ecs.World) {
	l.calls++
}

func testMotor(camera ecs.Entity) *component.PlayerMotor {
	return &component.PlayerMotor{
		Speed:             12,
		GroundDrag:        5,
		AirFriction:       0.4,
		JumpForce:         8,
		GroundMask:        component.LayerGround,
		GroundProbeLength: 2,
		WallMask:          component.LayerWall,
		WallRunForce:      200,
		WallJumpForce:     7,
		WallJumpSideForce: 12,
		WallCheckDistance: 0.7,
		MinJumpHeight:     2,
		ExitWallTime:      0.2,
		JumpPlatformForce: 65,
		FOVMin:            55,
		FOVMax:            65,
		FOVRate:           50,
		Camera:            uint64(camera),
	}
}

// newTestPlayer builds a player at the origin facing +Z with a camera.
func newTestPlayer(w *ecs.World) (ecs.Entity, ecs.Entity) {
	player := ecs.CreateEntity(w)
	camera := ecs.CreateEntity(w)

	_ = ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{Rotation: mgl64.QuatIdent()})
	_ = ecs.Add(w, player, component.RigidBodyComponent.Kind(), &component.RigidBody{Mass: 1, Radius: 0.5, Height: 2, UseGravity: true})
	_ = ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{})
	_ = ecs.Add(w, player, component.PlayerStateComponent.Kind(), &component.PlayerState{})
	_ = ecs.Add(w, player, component.PlayerMotorComponent.Kind(), testMotor(camera))

	_ = ecs.Add(w, camera, component.TransformComponent.Kind(), &component.Transform{Rotation: mgl64.QuatIdent()})
	_ = ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{Body: uint64(player), FOV: 55, Sensitivity: 100, EyeHeight: 0.6})
	_ = ecs.Add(w, camera, component.MainCameraTagComponent.Kind(), &component.MainCameraTag{})
	return player, camera
}

func mustGet[T any](w *ecs.World, e ecs.Entity, h component.ComponentHandle[T]) *T {
	v, ok := ecs.Get(w, e, h.Kind())
	if !ok {
		panic("missing component")
	}
	return v
}
