package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallrunner/common"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
)

const maxPitch = 90.0

// CameraLookSystem turns look input into camera pitch and body yaw, then
// places the camera at the body's eye height.
type CameraLookSystem struct{}

func NewCameraLookSystem() *CameraLookSystem {
	return &CameraLookSystem{}
}

func (cs *CameraLookSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	ecs.ForEach2(w, component.CameraComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cam *component.Camera, transform *component.Transform) {
		body := ecs.Entity(cam.Body)
		bodyTransform, ok := ecs.Get(w, body, component.TransformComponent.Kind())
		if !ok {
			return
		}

		if input, ok := ecs.Get(w, body, component.InputComponent.Kind()); ok {
			cam.Pitch = common.Clamp(cam.Pitch-input.LookY*cam.Sensitivity*dt, -maxPitch, maxPitch)
			bodyTransform.Rotate(component.WorldUp, input.LookX*cam.Sensitivity*dt)
		}

		transform.Position = bodyTransform.Position.Add(mgl64.Vec3{0, cam.EyeHeight, 0})
		transform.Rotation = bodyTransform.Orientation().Mul(pitchRotation(cam.Pitch)).Normalize()
	})
}

// pitchRotation rotates about the local right axis; positive pitch looks
// down.
func pitchRotation(pitch float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(pitch), component.WorldRight)
}
