package system

import (
	"fmt"

	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/milk9111/wallrunner/levels"
	"github.com/rs/zerolog/log"
)

// SceneBuilder populates a world with the scene at a build index.
type SceneBuilder interface {
	SceneCount() int
	BuildScene(w *ecs.World, index int) (component.SceneLoaded, error)
}

// SceneSystem owns scene loading. It consumes SceneChangeRequest and
// ReloadRequest entities, restarts the scene when the player falls below the
// scene's kill height, and rebuilds the world from the SceneBuilder.
type SceneSystem struct {
	builder      SceneBuilder
	physicsReset func()
	active       int
	onLoad       []func(component.SceneLoaded)
}

func NewSceneSystem(builder SceneBuilder, physicsReset func()) (*SceneSystem, error) {
	if builder == nil {
		return nil, fmt.Errorf("scene system: builder: %w", ErrMissingDependency)
	}
	return &SceneSystem{builder: builder, physicsReset: physicsReset}, nil
}

// OnLoad registers fn to run after every successful scene build.
func (s *SceneSystem) OnLoad(fn func(component.SceneLoaded)) {
	if fn != nil {
		s.onLoad = append(s.onLoad, fn)
	}
}

// ActiveScene returns the build index of the scene currently loaded.
func (s *SceneSystem) ActiveScene() int {
	return s.active
}

func (s *SceneSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	if req, ok := consumeSceneChangeRequests(w); ok {
		if err := s.Load(w, req.Index); err != nil {
			log.Error().Err(err).Int("scene", req.Index).Msg("scene load failed")
		}
		return
	}

	reload := false
	ecs.ForEach(w, component.ReloadRequestComponent.Kind(), func(e ecs.Entity, _ *component.ReloadRequest) {
		reload = true
		ecs.DestroyEntity(w, e)
	})
	if !reload && s.playerBelowKillPlane(w) {
		reload = true
	}
	if reload {
		if err := s.Load(w, s.active); err != nil {
			log.Error().Err(err).Int("scene", s.active).Msg("scene reload failed")
		}
	}
}

// Load tears the world down and builds the scene at index. An index outside
// the build order leaves the current scene running and tells the overlay to
// play its "End" clip so the screen is not left covered.
func (s *SceneSystem) Load(w *ecs.World, index int) error {
	if index < 0 || index >= s.builder.SceneCount() {
		abortTransition(w)
		return fmt.Errorf("load scene %d of %d: %w", index, s.builder.SceneCount(), levels.ErrSceneOutOfRange)
	}

	StopAudio(w)
	for _, e := range ecs.Entities(w) {
		ecs.DestroyEntity(w, e)
	}
	if s.physicsReset != nil {
		s.physicsReset()
	}

	loaded, err := s.builder.BuildScene(w, index)
	if err != nil {
		// The old scene is gone already; clear the partial one so the world
		// is visibly empty rather than half built.
		partial := ecs.Entities(w)
		for _, e := range partial {
			ecs.DestroyEntity(w, e)
		}
		if s.physicsReset != nil {
			s.physicsReset()
		}
		log.Warn().Int("scene", index).Int("entities", len(partial)).Msg("discarded partial scene")
		return fmt.Errorf("build scene %d: %w", index, err)
	}
	loaded.Index = index
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.SceneLoadedComponent.Kind(), &loaded)

	s.active = index
	log.Info().Int("scene", index).Str("name", loaded.Name).Msg("scene loaded")
	for _, fn := range s.onLoad {
		fn(loaded)
	}
	return nil
}

func (s *SceneSystem) playerBelowKillPlane(w *ecs.World) bool {
	ent, ok := ecs.First(w, component.SceneLoadedComponent.Kind())
	if !ok {
		return false
	}
	loaded, _ := ecs.Get(w, ent, component.SceneLoadedComponent.Kind())
	if !loaded.KillPlane {
		return false
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return false
	}
	transform, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	return transform.Position.Y() < loaded.KillY
}

func consumeSceneChangeRequests(w *ecs.World) (component.SceneChangeRequest, bool) {
	var latest component.SceneChangeRequest
	found := false
	ecs.ForEach(w, component.SceneChangeRequestComponent.Kind(), func(e ecs.Entity, req *component.SceneChangeRequest) {
		latest = *req
		found = true
		ecs.DestroyEntity(w, e)
	})
	return latest, found
}

func abortTransition(w *ecs.World) {
	ecs.ForEach(w, component.TransitionRuntimeComponent.Kind(), func(e ecs.Entity, _ *component.TransitionRuntime) {
		ecs.DestroyEntity(w, e)
	})
	ecs.ForEach2(w, component.LevelLoaderComponent.Kind(), component.AnimatorComponent.Kind(), func(e ecs.Entity, _ *component.LevelLoader, anim *component.Animator) {
		anim.SetTrigger(TriggerEnd)
	})
}
