package system

import (
	"fmt"

	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/rs/zerolog/log"
)

const defaultJumpPlatformForce = 65.0

// LevelLoader advances the game to the next scene.
type LevelLoader interface {
	LoadNextLevel(w *ecs.World)
}

// PlayerCollisionSystem reacts to the contacts reported by the physics step:
// jump platforms launch the player, finish triggers load the next level.
// After dispatch it re-applies the horizontal speed limit so it holds after
// every physics step.
type PlayerCollisionSystem struct {
	loader LevelLoader
}

func NewPlayerCollisionSystem(loader LevelLoader) (*PlayerCollisionSystem, error) {
	if loader == nil {
		return nil, fmt.Errorf("player collision: level loader: %w", ErrMissingDependency)
	}
	return &PlayerCollisionSystem{loader: loader}, nil
}

func (s *PlayerCollisionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, evt := range w.Events().Drain() {
		if evt.Type != ecs.EventTypeCollision {
			continue
		}
		ce, ok := evt.Data.(ecs.CollisionEvent)
		if !ok {
			continue
		}
		motor, ok := ecs.Get(w, ce.Entity, component.PlayerMotorComponent.Kind())
		if !ok {
			continue
		}

		switch {
		case ce.Kind == ecs.CollisionEventEnter && ce.Layer == component.LayerJumpPlatform:
			rb, ok := ecs.Get(w, ce.Entity, component.RigidBodyComponent.Kind())
			if !ok {
				continue
			}
			force := motor.JumpPlatformForce
			if force == 0 {
				force = defaultJumpPlatformForce
			}
			up := component.WorldUp
			if transform, ok := ecs.Get(w, ce.Entity, component.TransformComponent.Kind()); ok {
				up = transform.Up()
			}
			rb.AddForce(up.Mul(force), component.ForceModeImpulse)
			log.Debug().Uint64("entity", uint64(ce.Entity)).Msg("jump platform")
		case ce.Kind == ecs.TriggerEventEnter && ce.Layer == component.LayerFinish:
			log.Debug().Uint64("entity", uint64(ce.Entity)).Msg("finish reached")
			s.loader.LoadNextLevel(w)
		}
	}

	// Wall running included: the wall-run force would otherwise push the
	// player past Speed within a few steps.
	ecs.ForEach2(w,
		component.PlayerMotorComponent.Kind(),
		component.RigidBodyComponent.Kind(),
		func(e ecs.Entity, motor *component.PlayerMotor, rb *component.RigidBody) {
			clampHorizontalSpeed(rb, motor.Speed)
		})
}
