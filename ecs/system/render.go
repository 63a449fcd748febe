package system

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
)

const (
	defaultNear = 0.05
	defaultFOV  = 60.0
	lineWidth   = 1.5
)

var (
	skyColor     = color.RGBA{R: 0x14, G: 0x18, B: 0x24, A: 0xff}
	defaultColor = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
)

// boxEdges indexes the corner pairs of a box built by boxCorners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// RenderSystem draws every Box as a wireframe seen from the main camera and
// covers the screen with the transition overlay.
type RenderSystem struct {
	camEntity ecs.Entity
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if !ecs.IsAlive(w, r.camEntity) {
		r.camEntity = 0
		if camEntity, ok := ecs.First(w, component.MainCameraTagComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}

	cam, hasCam := ecs.Get(w, r.camEntity, component.CameraComponent.Kind())
	camTransform, hasTransform := ecs.Get(w, r.camEntity, component.TransformComponent.Kind())
	if hasCam && hasTransform {
		screen.Fill(skyColor)
		bounds := screen.Bounds()
		view := newViewProjection(cam, camTransform, float64(bounds.Dx()), float64(bounds.Dy()))

		ecs.ForEach2(w, component.BoxComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, box *component.Box, transform *component.Transform) {
			if e == ecs.Entity(cam.Body) {
				return
			}
			clr := box.Color
			if clr.A == 0 {
				clr = defaultColor
			}
			corners := boxCorners(box.Size, transform)
			for _, edge := range boxEdges {
				x0, y0, x1, y1, ok := view.projectSegment(corners[edge[0]], corners[edge[1]])
				if !ok {
					continue
				}
				vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), lineWidth, clr, true)
			}
		})
	}

	drawOverlay(w, screen)
}

func drawOverlay(w *ecs.World, screen *ebiten.Image) {
	ecs.ForEach2(w, component.LevelLoaderComponent.Kind(), component.AnimatorComponent.Kind(), func(e ecs.Entity, _ *component.LevelLoader, anim *component.Animator) {
		alpha := math.Max(0, math.Min(1, anim.Value))
		if alpha <= 0 {
			return
		}
		bounds := screen.Bounds()
		vector.DrawFilledRect(screen, 0, 0, float32(bounds.Dx()), float32(bounds.Dy()), color.NRGBA{A: uint8(alpha * 255)}, false)
	})
}

func boxCorners(size mgl64.Vec3, transform *component.Transform) [8]mgl64.Vec3 {
	half := size.Mul(0.5)
	rot := transform.Orientation()
	var out [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		local := mgl64.Vec3{half.X(), half.Y(), half.Z()}
		if i&1 == 0 {
			local[0] = -local[0]
		}
		if i&2 == 0 {
			local[1] = -local[1]
		}
		if i&4 == 0 {
			local[2] = -local[2]
		}
		out[i] = transform.Position.Add(rot.Rotate(local))
	}
	return out
}

// viewProjection maps world points to screen pixels for a pinhole camera
// looking down its local +Z with +Y up.
type viewProjection struct {
	position mgl64.Vec3
	inverse  mgl64.Quat
	near     float64
	focal    float64
	cx, cy   float64
}

func newViewProjection(cam *component.Camera, transform *component.Transform, width, height float64) viewProjection {
	fov := cam.FOV
	if fov <= 0 {
		fov = defaultFOV
	}
	near := cam.Near
	if near <= 0 {
		near = defaultNear
	}
	return viewProjection{
		position: transform.Position,
		inverse:  transform.Orientation().Conjugate(),
		near:     near,
		focal:    (height / 2) / math.Tan(mgl64.DegToRad(fov)/2),
		cx:       width / 2,
		cy:       height / 2,
	}
}

func (v viewProjection) toView(p mgl64.Vec3) mgl64.Vec3 {
	return v.inverse.Rotate(p.Sub(v.position))
}

func (v viewProjection) toScreen(p mgl64.Vec3) (float64, float64) {
	return v.cx + v.focal*p.X()/p.Z(), v.cy - v.focal*p.Y()/p.Z()
}

// projectSegment clips a world segment against the near plane and projects
// it. It reports false when the whole segment is behind the camera.
func (v viewProjection) projectSegment(a, b mgl64.Vec3) (float64, float64, float64, float64, bool) {
	va, vb := v.toView(a), v.toView(b)
	if va.Z() < v.near && vb.Z() < v.near {
		return 0, 0, 0, 0, false
	}
	if va.Z() < v.near {
		va = clipNear(va, vb, v.near)
	} else if vb.Z() < v.near {
		vb = clipNear(vb, va, v.near)
	}
	x0, y0 := v.toScreen(va)
	x1, y1 := v.toScreen(vb)
	return x0, y0, x1, y1, true
}

// clipNear moves behind toward front until it lies on the near plane.
func clipNear(behind, front mgl64.Vec3, near float64) mgl64.Vec3 {
	t := (near - behind.Z()) / (front.Z() - behind.Z())
	return behind.Add(front.Sub(behind).Mul(t))
}
