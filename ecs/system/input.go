package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
)

const (
	stickDeadzone = 0.2
	// mouseAxisScale converts pixels of pointer motion into look axis units.
	mouseAxisScale = 0.1
	// stickLookScale converts a full right-stick deflection into look axis
	// units per frame.
	stickLookScale = 2.0
)

// InputSystem samples keyboard, mouse and the first gamepad into every Input
// component. It also owns the cursor: the cursor is captured while a player
// camera is present. Escape releases it and a click captures it again.
type InputSystem struct {
	camera   ecs.Entity
	captured bool
	lastX    int
	lastY    int
	primed   bool
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	i.updateCursor(w)

	horizontal := axis(
		ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	)
	vertical := axis(
		ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
	)
	jump := ebiten.IsKeyPressed(ebiten.KeySpace)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)

	lookX, lookY := 0.0, 0.0
	if i.captured {
		x, y := ebiten.CursorPosition()
		if i.primed {
			lookX = float64(x-i.lastX) * mouseAxisScale
			// Screen Y grows downward; look Y grows upward.
			lookY = -float64(y-i.lastY) * mouseAxisScale
		}
		i.lastX, i.lastY = x, y
		i.primed = true
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
			ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
			if math.Abs(lx) > stickDeadzone {
				horizontal = math.Copysign(1, lx)
			}
			if math.Abs(ly) > stickDeadzone {
				vertical = -math.Copysign(1, ly)
			}

			rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
			ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
			if math.Hypot(rx, ry) > stickDeadzone {
				lookX += rx * stickLookScale
				lookY -= ry * stickLookScale
			}

			jump = jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
			jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		}
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.Horizontal = horizontal
		input.Vertical = vertical
		input.LookX = lookX
		input.LookY = lookY
		input.Jump = jump
		input.JumpPressed = jumpPressed
	})
}

func (i *InputSystem) updateCursor(w *ecs.World) {
	camera, ok := lookCamera(w)
	if !ok {
		if i.captured {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
			i.captured = false
		}
		i.camera = 0
		return
	}

	// A new camera means a new gameplay scene: lock the cursor.
	if camera != i.camera {
		i.camera = camera
		i.capture()
	}

	if i.captured && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		i.captured = false
		return
	}
	if !i.captured && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		i.capture()
	}
}

// lookCamera returns the camera attached to an input-driven body. Menu
// scenes have a camera without one and keep the cursor free.
func lookCamera(w *ecs.World) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	ecs.ForEach(w, component.CameraComponent.Kind(), func(e ecs.Entity, cam *component.Camera) {
		if ok {
			return
		}
		if ecs.Has(w, ecs.Entity(cam.Body), component.InputComponent.Kind()) {
			found, ok = e, true
		}
	})
	return found, ok
}

func (i *InputSystem) capture() {
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	i.captured = true
	i.primed = false
}

func axis(negative, positive bool) float64 {
	v := 0.0
	if negative {
		v--
	}
	if positive {
		v++
	}
	return v
}
