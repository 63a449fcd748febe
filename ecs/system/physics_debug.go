package system

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
)

const (
	debugMapZoom   = 4.0
	debugMapSize   = 200.0
	debugMapMargin = 10.0
	debugDotSize   = 3.0
)

var (
	minimapBackground = color.NRGBA{A: 160}
	bodyDebugColor    = cp.FColor{R: 1, G: 1, B: 1, A: 1}
	layerDebugColors  = map[component.Layer]cp.FColor{
		component.LayerGround:       {R: 0.6, G: 0.6, B: 0.6, A: 1},
		component.LayerWall:         {R: 0.3, G: 0.5, B: 1, A: 1},
		component.LayerJumpPlatform: {R: 1, G: 0.6, B: 0.1, A: 1},
		component.LayerFinish:       {R: 0.2, G: 1, B: 0.3, A: 1},
	}
)

// DrawPhysicsDebug draws a top-down minimap of the physics space in the
// top-right corner, centred on the player. Colliders are coloured by layer,
// triggers are drawn faint and the player body is white.
func DrawPhysicsDebug(ps *PhysicsSystem, w *ecs.World, screen *ebiten.Image) {
	space := ps.Space()
	if space == nil || w == nil || screen == nil {
		return
	}
	centerX, centerZ := debugCenter(w)
	m := newMinimap(centerX, centerZ, float64(screen.Bounds().Dx()))
	vector.DrawFilledRect(screen, float32(m.left), float32(m.top), debugMapSize, debugMapSize, minimapBackground, false)
	cp.DrawSpace(space, &minimapDrawer{minimap: m, screen: screen, ps: ps})
}

// DrawPlayerStateDebug prints the wall-run state machine of the player.
func DrawPlayerStateDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	state, ok := ecs.Get(w, player, component.PlayerStateComponent.Kind())
	if !ok {
		return
	}
	speed := 0.0
	if rb, ok := ecs.Get(w, player, component.RigidBodyComponent.Kind()); ok {
		speed = mgl64.Vec2{rb.Velocity.X(), rb.Velocity.Z()}.Len()
	}
	fov := 0.0
	if motor, ok := ecs.Get(w, player, component.PlayerMotorComponent.Kind()); ok {
		if cam, ok := ecs.Get(w, ecs.Entity(motor.Camera), component.CameraComponent.Kind()); ok {
			fov = cam.FOV
		}
	}
	text := fmt.Sprintf("FPS: %.0f\nSpeed: %.2f\nGrounded: %v\nWall: L=%v R=%v\nWallRunning: %v\nExiting: %v (%.2f)\nFOV: %.1f",
		ebiten.ActualFPS(), speed, state.Grounded, state.WallLeft, state.WallRight, state.WallRunning, state.ExitingWall, state.ExitWallTimer, fov)
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

// minimap maps the cp plane (world X, world Z) into a square on screen with
// world Z pointing up.
type minimap struct {
	centerX, centerZ float64
	left, top        float64
}

func newMinimap(centerX, centerZ, screenWidth float64) minimap {
	return minimap{
		centerX: centerX,
		centerZ: centerZ,
		left:    screenWidth - debugMapSize - debugMapMargin,
		top:     debugMapMargin,
	}
}

func (m minimap) toScreen(v cp.Vector) (float64, float64) {
	return m.left + debugMapSize/2 + (v.X-m.centerX)*debugMapZoom,
		m.top + debugMapSize/2 - (v.Y-m.centerZ)*debugMapZoom
}

func (m minimap) contains(x, y float64) bool {
	return x >= m.left && x <= m.left+debugMapSize && y >= m.top && y <= m.top+debugMapSize
}

// clip trims the screen segment (x0,y0)-(x1,y1) to the minimap square
// (Liang-Barsky). ok is false when nothing of the segment is inside.
func (m minimap) clip(x0, y0, x1, y1 float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - m.left},
		{dx, m.left + debugMapSize - x0},
		{-dy, y0 - m.top},
		{dy, m.top + debugMapSize - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// minimapDrawer renders cp.DrawSpace output into a minimap.
type minimapDrawer struct {
	minimap
	screen *ebiten.Image
	ps     *PhysicsSystem
}

func (d *minimapDrawer) line(a, b cp.Vector, width float64, c cp.FColor) {
	x0, y0 := d.toScreen(a)
	x1, y1 := d.toScreen(b)
	x0, y0, x1, y1, ok := d.clip(x0, y0, x1, y1)
	if !ok {
		return
	}
	vector.StrokeLine(d.screen, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), toNRGBA(c), false)
}

func (d *minimapDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	x, y := d.toScreen(pos)
	if !d.contains(x, y) {
		return
	}
	vector.StrokeCircle(d.screen, float32(x), float32(y), float32(radius*debugMapZoom), 1, toNRGBA(fill), false)
}

func (d *minimapDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, 1, fill)
}

func (d *minimapDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, max(1, 2*radius*debugMapZoom), fill)
}

func (d *minimapDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], 1, fill)
	}
}

func (d *minimapDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.toScreen(pos)
	if !d.contains(x, y) {
		return
	}
	half := debugDotSize / 2
	vector.DrawFilledRect(d.screen, float32(x-half), float32(y-half), debugDotSize, debugDotSize, toNRGBA(fill), false)
}

func (d *minimapDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *minimapDrawer) OutlineColor() cp.FColor {
	return bodyDebugColor
}

// ShapeColor colours a shape by the collider it was built from.
func (d *minimapDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if info, ok := d.ps.staticShapes[shape]; ok {
		return layerDebugColor(info.layer, info.trigger)
	}
	return bodyDebugColor
}

func (d *minimapDrawer) ConstraintColor() cp.FColor {
	return bodyDebugColor
}

func (d *minimapDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 1}
}

func (d *minimapDrawer) Data() interface{} {
	return nil
}

func layerDebugColor(layer component.Layer, trigger bool) cp.FColor {
	c, ok := layerDebugColors[layer]
	if !ok {
		c = cp.FColor{R: 0.8, G: 0.8, B: 0.8, A: 1}
	}
	if trigger {
		c.A *= 0.4
	}
	return c
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func debugCenter(w *ecs.World) (float64, float64) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, 0
	}
	transform, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return 0, 0
	}
	return transform.Position.X(), transform.Position.Z()
}
