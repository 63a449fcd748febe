package component

// Camera is a first-person look camera. Pitch is local to the camera; yaw is
// applied to the Body transform.
type Camera struct {
	Body        uint64
	Pitch       float64
	Sensitivity float64
	FOV         float64
	EyeHeight   float64
	Near        float64
	Far         float64
}

var CameraComponent = NewComponent[Camera]()
