package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wallrunner/common"
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
)

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeSolid
	collisionTypeTrigger
)

// contactSlop is how far two vertical extents must overlap before a
// horizontal contact counts. Standing on a block is not touching its sides.
const contactSlop = 1e-3

// RaycastHit describes the closest collider struck by a ray.
type RaycastHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Entity   ecs.Entity
	Layer    component.Layer
}

// Raycaster answers ray queries against the static colliders of the scene.
type Raycaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64, mask component.Layer) (RaycastHit, bool)
}

// PhysicsSystem simulates rigid bodies against static box colliders. The
// horizontal plane (world X/Z) is a chipmunk space: every collider is a box
// footprint extruded over its vertical extent and every body is a circle
// extruded over its height. Vertical motion, gravity, drag and landing on
// collider tops are integrated here.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	bodies  map[ecs.Entity]*bodyInfo
	statics map[ecs.Entity]*staticInfo

	bodyShapes   map[*cp.Shape]*bodyInfo
	staticShapes map[*cp.Shape]*staticInfo

	contacts map[contactKey]contactInfo
	touching map[contactKey]contactInfo
}

type bodyInfo struct {
	entity ecs.Entity
	body   *cp.Body
	shape  *cp.Shape
	radius float64
	minY   float64
	maxY   float64
}

type staticInfo struct {
	entity  ecs.Entity
	shape   *cp.Shape
	layer   component.Layer
	trigger bool
	minY    float64
	maxY    float64
}

type contactKey struct {
	body  ecs.Entity
	other ecs.Entity
}

type contactInfo struct {
	layer   component.Layer
	trigger bool
}

func NewPhysicsSystem() *PhysicsSystem {
	ps := &PhysicsSystem{}
	ps.Reset()
	return ps
}

// Space exposes the underlying chipmunk space.
func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Reset drops every tracked body and collider. The scene system calls it
// before building a new scene.
func (ps *PhysicsSystem) Reset() {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	ps.space = space
	ps.handlersReady = false
	ps.bodies = make(map[ecs.Entity]*bodyInfo)
	ps.statics = make(map[ecs.Entity]*staticInfo)
	ps.bodyShapes = make(map[*cp.Shape]*bodyInfo)
	ps.staticShapes = make(map[*cp.Shape]*staticInfo)
	ps.contacts = make(map[contactKey]contactInfo)
	ps.touching = make(map[contactKey]contactInfo)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	dt := w.DeltaTime()
	if dt <= 0 {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)

	ps.touching = make(map[contactKey]contactInfo)

	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, rb *component.RigidBody, transform *component.Transform) {
		info := ps.bodies[e]
		if info == nil {
			return
		}
		ps.integrateVelocity(rb, dt)
		ps.integrateVertical(e, rb, transform, info, dt)

		info.body.SetPosition(toCP(transform.Position))
		info.body.SetVelocityVector(cp.Vector{X: rb.Velocity.X(), Y: rb.Velocity.Z()})
	})

	ps.space.Step(dt)

	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, rb *component.RigidBody, transform *component.Transform) {
		info := ps.bodies[e]
		if info == nil {
			return
		}
		pos := info.body.Position()
		vel := info.body.Velocity()
		transform.Position = mgl64.Vec3{pos.X, transform.Position.Y(), pos.Y}
		rb.Velocity = mgl64.Vec3{vel.X, rb.Velocity.Y(), vel.Y}
	})

	ps.emitContactEvents(w)
}

func (ps *PhysicsSystem) integrateVelocity(rb *component.RigidBody, dt float64) {
	v := rb.Velocity.Add(rb.Force.Mul(rb.InverseMass() * dt))
	if rb.UseGravity {
		v = v.Add(mgl64.Vec3{0, common.Gravity * dt, 0})
	}
	if rb.Drag > 0 {
		v = v.Mul(math.Max(0, 1-rb.Drag*dt))
	}
	rb.Velocity = v
	rb.Force = mgl64.Vec3{}
}

// integrateVertical moves the body along Y, stopping it on the top or bottom
// faces of solid colliders under or over its footprint.
func (ps *PhysicsSystem) integrateVertical(e ecs.Entity, rb *component.RigidBody, transform *component.Transform, info *bodyInfo, dt float64) {
	half := rb.Height / 2
	y := transform.Position.Y()
	vy := rb.Velocity.Y()
	next := y + vy*dt
	foot := cp.Vector{X: transform.Position.X(), Y: transform.Position.Z()}

	for _, st := range ps.statics {
		if st.trigger || !footprintOverlap(st.shape, foot, info.radius) {
			continue
		}
		switch {
		case vy <= 0 && y-half >= st.maxY-contactSlop && next-half < st.maxY:
			next = st.maxY + half
			vy = 0
			ps.touch(e, st)
		case vy <= 0 && math.Abs(y-half-st.maxY) <= contactSlop:
			// Resting on the top face.
			ps.touch(e, st)
		case vy > 0 && y+half <= st.minY+contactSlop && next+half > st.minY:
			next = st.minY - half
			vy = 0
			ps.touch(e, st)
		}
	}

	transform.Position = mgl64.Vec3{transform.Position.X(), next, transform.Position.Z()}
	rb.Velocity = mgl64.Vec3{rb.Velocity.X(), vy, rb.Velocity.Z()}
	info.minY = next - half
	info.maxY = next + half
}

func footprintOverlap(shape *cp.Shape, p cp.Vector, radius float64) bool {
	return shape.PointQuery(p).Distance < radius-contactSlop
}

func (ps *PhysicsSystem) touch(e ecs.Entity, st *staticInfo) {
	ps.touching[contactKey{body: e, other: st.entity}] = contactInfo{layer: st.layer, trigger: st.trigger}
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	preSolve := func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		body := sys.bodyShapes[shapeA]
		st := sys.staticShapes[shapeB]
		if body == nil || st == nil {
			body = sys.bodyShapes[shapeB]
			st = sys.staticShapes[shapeA]
		}
		if body == nil || st == nil {
			return true
		}
		if !verticalOverlap(body.minY, body.maxY, st.minY, st.maxY) {
			return false
		}
		sys.touch(body.entity, st)
		return true
	}

	solid := ps.space.NewCollisionHandler(collisionTypeBody, collisionTypeSolid)
	solid.UserData = ps
	solid.PreSolveFunc = preSolve

	trigger := ps.space.NewCollisionHandler(collisionTypeBody, collisionTypeTrigger)
	trigger.UserData = ps
	trigger.PreSolveFunc = preSolve

	ps.handlersReady = true
}

func verticalOverlap(aMin, aMax, bMin, bMax float64) bool {
	return math.Min(aMax, bMax)-math.Max(aMin, bMin) > contactSlop
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, col *component.Collider, transform *component.Transform) {
		if _, ok := ps.statics[e]; ok {
			return
		}
		min, max := col.Bounds(transform.Position)
		bb := cp.BB{L: min.X(), B: min.Z(), R: max.X(), T: max.Z()}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(0)
		shape.SetElasticity(0)
		if col.Trigger {
			shape.SetSensor(true)
			shape.SetCollisionType(collisionTypeTrigger)
		} else {
			shape.SetCollisionType(collisionTypeSolid)
		}
		ps.space.AddShape(shape)

		info := &staticInfo{
			entity:  e,
			shape:   shape,
			layer:   col.Layer,
			trigger: col.Trigger,
			minY:    min.Y(),
			maxY:    max.Y(),
		}
		ps.statics[e] = info
		ps.staticShapes[shape] = info
	})

	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, rb *component.RigidBody, transform *component.Transform) {
		if _, ok := ps.bodies[e]; ok {
			return
		}
		mass := rb.Mass
		if mass <= 0 {
			mass = 1
		}
		radius := rb.Radius
		if radius <= 0 {
			radius = 0.5
		}
		// Infinite moment keeps the body upright; orientation belongs to the
		// transform.
		body := cp.NewBody(mass, cp.INFINITY)
		body.SetPosition(toCP(transform.Position))
		shape := cp.NewCircle(body, radius, cp.Vector{})
		shape.SetFriction(0)
		shape.SetElasticity(0)
		shape.SetCollisionType(collisionTypeBody)
		ps.space.AddBody(body)
		ps.space.AddShape(shape)

		info := &bodyInfo{
			entity: e,
			body:   body,
			shape:  shape,
			radius: radius,
			minY:   transform.Position.Y() - rb.Height/2,
			maxY:   transform.Position.Y() + rb.Height/2,
		}
		ps.bodies[e] = info
		ps.bodyShapes[shape] = info
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.statics {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.ColliderComponent.Kind()) {
			continue
		}
		ps.space.RemoveShape(info.shape)
		delete(ps.staticShapes, info.shape)
		delete(ps.statics, e)
	}
	for e, info := range ps.bodies {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.RigidBodyComponent.Kind()) {
			continue
		}
		ps.space.RemoveShape(info.shape)
		ps.space.RemoveBody(info.body)
		delete(ps.bodyShapes, info.shape)
		delete(ps.bodies, e)
	}
}

// emitContactEvents diffs this step's contacts against the previous step's
// and queues enter/exit events.
func (ps *PhysicsSystem) emitContactEvents(w *ecs.World) {
	events := w.Events()
	for key, c := range ps.touching {
		if _, ok := ps.contacts[key]; ok {
			continue
		}
		kind := ecs.CollisionEventEnter
		if c.trigger {
			kind = ecs.TriggerEventEnter
		}
		events.Push(ecs.Event{Type: ecs.EventTypeCollision, Data: ecs.CollisionEvent{Entity: key.body, Other: key.other, Kind: kind, Layer: c.layer}})
	}
	for key, c := range ps.contacts {
		if _, ok := ps.touching[key]; ok {
			continue
		}
		kind := ecs.CollisionEventExit
		if c.trigger {
			kind = ecs.TriggerEventExit
		}
		events.Push(ecs.Event{Type: ecs.EventTypeCollision, Data: ecs.CollisionEvent{Entity: key.body, Other: key.other, Kind: kind, Layer: c.layer}})
	}
	ps.contacts = ps.touching
}

// Raycast returns the nearest non-trigger collider on mask hit by the ray.
// Side faces are found through the chipmunk shape on the XZ projection of
// the ray; top and bottom faces are found by intersecting the face plane and
// testing the footprint. A ray starting inside a collider does not hit it.
func (ps *PhysicsSystem) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask component.Layer) (RaycastHit, bool) {
	if ps == nil || maxDist <= 0 || dir.Len() == 0 {
		return RaycastHit{}, false
	}
	dir = dir.Normalize()
	end := origin.Add(dir.Mul(maxDist))

	best := RaycastHit{Distance: math.Inf(1)}
	found := false
	consider := func(st *staticInfo, dist float64, normal mgl64.Vec3) {
		if dist < 0 || dist > maxDist || dist >= best.Distance {
			return
		}
		best = RaycastHit{
			Point:    origin.Add(dir.Mul(dist)),
			Normal:   normal,
			Distance: dist,
			Entity:   st.entity,
			Layer:    st.layer,
		}
		found = true
	}

	horizontal := math.Hypot(dir.X(), dir.Z()) > 1e-9
	for _, st := range ps.statics {
		if st.trigger || !st.layer.In(mask) {
			continue
		}

		if horizontal {
			var info cp.SegmentQueryInfo
			if st.shape.SegmentQuery(toCP(origin), toCP(end), 0, &info) && info.Alpha > 0 {
				dist := info.Alpha * maxDist
				y := origin.Y() + dir.Y()*dist
				if y >= st.minY && y <= st.maxY {
					consider(st, dist, mgl64.Vec3{info.Normal.X, 0, info.Normal.Y})
				}
			}
		}

		if dir.Y() < 0 && origin.Y() >= st.maxY {
			dist := (st.maxY - origin.Y()) / dir.Y()
			p := origin.Add(dir.Mul(dist))
			if st.shape.PointQuery(toCP(p)).Distance <= 0 {
				consider(st, dist, component.WorldUp)
			}
		}
		if dir.Y() > 0 && origin.Y() <= st.minY {
			dist := (st.minY - origin.Y()) / dir.Y()
			p := origin.Add(dir.Mul(dist))
			if st.shape.PointQuery(toCP(p)).Distance <= 0 {
				consider(st, dist, component.WorldUp.Mul(-1))
			}
		}
	}
	return best, found
}

func toCP(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}
