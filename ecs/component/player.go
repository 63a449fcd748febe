package component

import "github.com/go-gl/mathgl/mgl64"

// PlayerMotor holds the tuning for ground movement and wall running.
type PlayerMotor struct {
	Speed       float64
	GroundDrag  float64
	AirFriction float64
	JumpForce   float64

	GroundMask        Layer
	GroundProbeLength float64

	WallMask          Layer
	WallRunForce      float64
	WallJumpForce     float64
	WallJumpSideForce float64
	WallCheckDistance float64
	MinJumpHeight     float64
	ExitWallTime      float64

	JumpPlatformForce float64

	FOVMin  float64
	FOVMax  float64
	FOVRate float64

	// Camera is the entity whose field of view follows the wall-run state.
	Camera uint64
}

var PlayerMotorComponent = NewComponent[PlayerMotor]()

// PlayerState is the runtime state of the wall-run state machine.
type PlayerState struct {
	Grounded bool

	WallLeft        bool
	WallRight       bool
	LeftWallNormal  mgl64.Vec3
	RightWallNormal mgl64.Vec3

	WallRunning bool

	ExitingWall   bool
	ExitWallTimer float64
}

// WallNormal returns the normal of the wall being run on, right wall first.
func (s *PlayerState) WallNormal() mgl64.Vec3 {
	if s.WallRight {
		return s.RightWallNormal
	}
	return s.LeftWallNormal
}

var PlayerStateComponent = NewComponent[PlayerState]()
