package system

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameDT = 1.0 / 60.0

func newController(t *testing.T, rc *fakeRaycaster) *PlayerControllerSystem {
	t.Helper()
	pc, err := NewPlayerControllerSystem(rc)
	require.NoError(t, err)
	return pc
}

func frame(w *ecs.World, pc *PlayerControllerSystem) {
	w.SetDeltaTime(frameDT)
	pc.Update(w)
}

func fixed(w *ecs.World, pc *PlayerControllerSystem) {
	w.SetDeltaTime(ecs.FixedStep)
	pc.FixedUpdate(w)
}

func TestNewPlayerControllerSystemRequiresRaycaster(t *testing.T) {
	_, err := NewPlayerControllerSystem(nil)
	assert.True(t, errors.Is(err, ErrMissingDependency))
}

func TestGroundedJumpAppliesImpulseOnce(t *testing.T) {
	w := ecs.NewWorld()
	player, _ := newTestPlayer(w)
	rc := &fakeRaycaster{GroundDistance: 1}
	pc := newController(t, rc)

	mustGet(w, player, component.InputComponent).JumpPressed = true
	frame(w, pc)

	state := mustGet(w, player, component.PlayerStateComponent)
	rb := mustGet(w, player, component.RigidBodyComponent)
	assert.True(t, state.Grounded)
	assert.Equal(t, 5.0, rb.Drag)
	assert.InDelta(t, 8.0, rb.Velocity.Y(), 1e-9)

	// The player rose; the probe no longer reaches the ground.
	mustGet(w, player, component.InputComponent).JumpPressed = false
	rc.GroundDistance = 3
	frame(w, pc)

	assert.False(t, state.Grounded)
	assert.Equal(t, 0.0, rb.Drag)
	assert.InDelta(t, 8.0, rb.Velocity.Y(), 1e-9)
}

func TestJumpIgnoredInAir(t *testing.T) {
	w := ecs.NewWorld()
	player, _ := newTestPlayer(w)
	pc := newController(t, &fakeRaycaster{GroundDistance: -1})

	mustGet(w, player, component.InputComponent).JumpPressed = true
	frame(w, pc)

	assert.Equal(t, 0.0, mustGet(w, player, component.RigidBodyComponent).Velocity.Y())
}

func TestGroundMovementForce(t *testing.T) {
	tests := []struct {
		name     string
		ground   float64
		h, v     float64
		expected mgl64.Vec3
	}{
		{name: "grounded forward", ground: 1, v: 1, expected: mgl64.Vec3{0, 0, 120}},
		{name: "airborne forward", ground: -1, v: 1, expected: mgl64.Vec3{0, 0, 48}},
		{name: "grounded strafe left", ground: 1, h: -1, expected: mgl64.Vec3{-120, 0, 0}},
		{name: "no input", ground: 1, expected: mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			player, _ := newTestPlayer(w)
			pc := newController(t, &fakeRaycaster{GroundDistance: tt.ground})

			input := mustGet(w, player, component.InputComponent)
			input.Horizontal, input.Vertical = tt.h, tt.v
			frame(w, pc)
			fixed(w, pc)

			force := mustGet(w, player, component.RigidBodyComponent).Force
			assert.InDelta(t, tt.expected.X(), force.X(), 1e-9)
			assert.InDelta(t, tt.expected.Y(), force.Y(), 1e-9)
			assert.InDelta(t, tt.expected.Z(), force.Z(), 1e-9)
		})
	}
}

func TestDiagonalMovementIsNormalized(t *testing.T) {
	w := ecs.NewWorld()
	player, _ := newTestPlayer(w)
	pc := newController(t, &fakeRaycaster{GroundDistance: 1})

	input := mustGet(w, player, component.InputComponent)
	input.Horizontal, input.Vertical = 1, 1
	frame(w, pc)
	fixed(w, pc)

	assert.InDelta(t, 120.0, mustGet(w, player, component.RigidBodyComponent).Force.Len(), 1e-9)
}

func TestSpeedClampKeepsVerticalVelocity(t *testing.T) {
	w := ecs.NewWorld()
	player, _ := newTestPlayer(w)
	pc := newController(t, &fakeRaycaster{GroundDistance: -1})

	rb := mustGet(w, player, component.RigidBodyComponent)
	rb.Velocity = mgl64.Vec3{20, 3, 0}
	frame(w, pc)

	assert.InDelta(t, 12.0, rb.Velocity.X(), 1e-9)
	assert.InDelta(t, 3.0, rb.Velocity.Y(), 1e-9)
	assert.InDelta(t, 0.0, rb.Velocity.Z(), 1e-9)

	rb.Velocity = mgl64.Vec3{3, -9, 4}
	frame(w, pc)
	assert.Equal(t, mgl64.Vec3{3, -9, 4}, rb.Velocity)
}

func TestWallRunActivation(t *testing.T) {
	rightWall := &RaycastHit{Distance: 0.5, Normal: mgl64.Vec3{-1, 0, 0}, Layer: component.LayerWall}
	leftWall := &RaycastHit{Distance: 0.5, Normal: mgl64.Vec3{1, 0, 0}, Layer: component.LayerWall}

	tests := []struct {
		name     string
		rc       *fakeRaycaster
		vertical float64
		exiting  bool
		running  bool
	}{
		{name: "right wall", rc: &fakeRaycaster{Right: rightWall, GroundDistance: 5}, vertical: 1, running: true},
		{name: "left wall", rc: &fakeRaycaster{Left: leftWall, GroundDistance: 5}, vertical: 1, running: true},
		{name: "backwards input", rc: &fakeRaycaster{Right: rightWall, GroundDistance: 5}, vertical: -1, running: true},
		{name: "no vertical input", rc: &fakeRaycaster{Right: rightWall, GroundDistance: 5}, vertical: 0},
		{name: "too close to ground", rc: &fakeRaycaster{Right: rightWall, GroundDistance: 1.5}, vertical: 1},
		{name: "exiting wall", rc: &fakeRaycaster{Right: rightWall, GroundDistance: 5}, vertical: 1, exiting: true},
		{name: "no wall", rc: &fakeRaycaster{GroundDistance: 5}, vertical: 1},
		{name: "wall out of reach", rc: &fakeRaycaster{Right: &RaycastHit{Distance: 1, Normal: mgl64.Vec3{-1, 0, 0}}, GroundDistance: 5}, vertical: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			player, camera := newTestPlayer(w)
			pc := newController(t, tt.rc)

			mustGet(w, player, component.InputComponent).Vertical = tt.vertical
			state := mustGet(w, player, component.PlayerStateComponent)
			rb := mustGet(w, player, component.RigidBodyComponent)
			rb.Velocity = mgl64.Vec3{0, -4, 0}

			frame(w, pc)
			if tt.exiting {
				state.ExitingWall = true
				state.ExitWallTimer = 1
			}
			fixed(w, pc)

			assert.Equal(t, tt.running, state.WallRunning)
			assert.Equal(t, !tt.running, rb.UseGravity)
			fov := mustGet(w, camera, component.CameraComponent).FOV
			if tt.running {
				assert.Equal(t, 0.0, rb.Velocity.Y())
				assert.InDelta(t, 56.0, fov, 1e-9)
			} else {
				assert.Equal(t, 55.0, fov)
			}
		})
	}
}

func TestWallRunForceFollowsFacing(t *testing.T) {
	w := ecs.NewWorld()
	player, _ := newTestPlayer(w)
	pc := newController(t, &fakeRaycaster{
		Right:          &RaycastHit{Distance: 0.5, Normal: mgl64.Vec3{-1, 0, 0}},
		GroundDistance: -1,
	})

	mustGet(w, player, component.InputComponent).Vertical = 1
	frame(w, pc)
	fixed(w, pc)

	// First step: movement force (airborne) plus wall-run force along +Z.
	rb := mustGet(w, player, component.RigidBodyComponent)
	assert.InDelta(t, 48.0+200.0, rb.Force.Z(), 1e-9)
	rb.Force = mgl64.Vec3{}

	// While running, only the wall-run force applies.
	fixed(w, pc)
	assert.InDelta(t, 200.0, rb.Force.Z(), 1e-9)
	assert.InDelta(t, 0.0, rb.Force.X(), 1e-9)
}

func TestRightWallWinsWhenBothHit(t *testing.T) {
	w := ecs.NewWorld()
	player, _ := newTestPlayer(w)
	pc := newController(t, &fakeRaycaster{
		Right:          &RaycastHit{Distance: 0.5, Normal: mgl64.Vec3{-1, 0, 0}},
		Left:           &RaycastHit{Distance: 0.5, Normal: mgl64.Vec3{1, 0, 0}},
		GroundDistance: -1,
	})

	mustGet(w, player, component.InputComponent).Vertical = 1
	frame(w, pc)
	fixed(w, pc)

	state := mustGet(w, player, component.PlayerStateComponent)
	require.True(t, state.WallRunning)
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, state.WallNormal())
}

func TestWallJump(t *testing.T) {
	w := ecs.NewWorld()
	player, camera := newTestPlayer(w)
	pc := newController(t, &fakeRaycaster{
		Right:          &RaycastHit{Distance: 0.5, Normal: mgl64.Vec3{-1, 0, 0}},
		GroundDistance: -1,
	})

	input := mustGet(w, player, component.InputComponent)
	input.Vertical = 1
	frame(w, pc)
	fixed(w, pc)

	state := mustGet(w, player, component.PlayerStateComponent)
	rb := mustGet(w, player, component.RigidBodyComponent)
	require.True(t, state.WallRunning)
	mustGet(w, camera, component.CameraComponent).FOV = 65

	rb.Velocity = mgl64.Vec3{0, -2, 6}
	input.JumpPressed = true
	frame(w, pc)

	assert.True(t, state.ExitingWall)
	assert.InDelta(t, 0.2-frameDT, state.ExitWallTimer, 1e-9)
	assert.InDelta(t, -12.0, rb.Velocity.X(), 1e-9)
	assert.InDelta(t, 7.0, rb.Velocity.Y(), 1e-9)
	assert.InDelta(t, 6.0, rb.Velocity.Z(), 1e-9)

	// The exit window blocks the wall run on the next step.
	input.JumpPressed = false
	fixed(w, pc)
	assert.False(t, state.WallRunning)
	assert.True(t, rb.UseGravity)

	// FOV eases back and the window closes.
	for i := 0; i < 60; i++ {
		frame(w, pc)
	}
	assert.False(t, state.ExitingWall)
	assert.Less(t, mustGet(w, camera, component.CameraComponent).FOV, 65.0)
}

func TestWallJumpNeedsWallRun(t *testing.T) {
	w := ecs.NewWorld()
	player, _ := newTestPlayer(w)
	pc := newController(t, &fakeRaycaster{
		Right:          &RaycastHit{Distance: 0.5, Normal: mgl64.Vec3{-1, 0, 0}},
		GroundDistance: -1,
	})

	mustGet(w, player, component.InputComponent).JumpPressed = true
	frame(w, pc)

	state := mustGet(w, player, component.PlayerStateComponent)
	assert.False(t, state.ExitingWall)
	assert.Equal(t, mgl64.Vec3{}, mustGet(w, player, component.RigidBodyComponent).Velocity)
}

func TestFOVStaysInRange(t *testing.T) {
	w := ecs.NewWorld()
	player, camera := newTestPlayer(w)
	pc := newController(t, &fakeRaycaster{
		Right:          &RaycastHit{Distance: 0.5, Normal: mgl64.Vec3{-1, 0, 0}},
		GroundDistance: -1,
	})
	mustGet(w, player, component.InputComponent).Vertical = 1

	for i := 0; i < 100; i++ {
		frame(w, pc)
		fixed(w, pc)
	}
	cam := mustGet(w, camera, component.CameraComponent)
	assert.Equal(t, 65.0, cam.FOV)

	state := mustGet(w, player, component.PlayerStateComponent)
	state.ExitingWall = true
	state.ExitWallTimer = 10
	for i := 0; i < 100; i++ {
		frame(w, pc)
	}
	assert.Equal(t, 55.0, cam.FOV)
}

func TestWallForward(t *testing.T) {
	tests := []struct {
		name     string
		normal   mgl64.Vec3
		forward  mgl64.Vec3
		expected mgl64.Vec3
	}{
		{name: "right wall facing +z", normal: mgl64.Vec3{-1, 0, 0}, forward: mgl64.Vec3{0, 0, 1}, expected: mgl64.Vec3{0, 0, 1}},
		{name: "right wall facing -z", normal: mgl64.Vec3{-1, 0, 0}, forward: mgl64.Vec3{0, 0, -1}, expected: mgl64.Vec3{0, 0, -1}},
		{name: "left wall facing +z", normal: mgl64.Vec3{1, 0, 0}, forward: mgl64.Vec3{0, 0, 1}, expected: mgl64.Vec3{0, 0, 1}},
		{name: "wall along x", normal: mgl64.Vec3{0, 0, 1}, forward: mgl64.Vec3{0.8, 0, -0.6}, expected: mgl64.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WallForward(tt.normal, component.WorldUp, tt.forward)
			assert.InDelta(t, tt.expected.X(), got.X(), 1e-9)
			assert.InDelta(t, tt.expected.Y(), got.Y(), 1e-9)
			assert.InDelta(t, tt.expected.Z(), got.Z(), 1e-9)
		})
	}
}
