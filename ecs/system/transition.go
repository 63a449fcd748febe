package system

import (
	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/rs/zerolog/log"
)

const (
	TriggerStart = "Start"
	TriggerEnd   = "End"

	defaultTransitionTime = 1.0
)

// TransitionSystem runs scene transitions. LoadNextLevel starts one: the
// overlay plays its "Start" clip, every audio fader fades out, and once the
// configured transition time has passed a SceneChangeRequest for the next
// build index is spawned for the scene system.
//
// Only one transition runs at a time; LoadNextLevel is ignored while one is
// in flight.
type TransitionSystem struct{}

func NewTransitionSystem() *TransitionSystem { return &TransitionSystem{} }

func (ts *TransitionSystem) LoadNextLevel(w *ecs.World) {
	if w == nil {
		return
	}
	if _, ok := ecs.First(w, component.TransitionRuntimeComponent.Kind()); ok {
		log.Debug().Msg("transition already in progress")
		return
	}

	active := 0
	if ent, ok := ecs.First(w, component.SceneLoadedComponent.Kind()); ok {
		loaded, _ := ecs.Get(w, ent, component.SceneLoadedComponent.Kind())
		active = loaded.Index
	}

	duration := defaultTransitionTime
	ecs.ForEach2(w, component.LevelLoaderComponent.Kind(), component.AnimatorComponent.Kind(), func(e ecs.Entity, loader *component.LevelLoader, anim *component.Animator) {
		if loader.TransitionTime > 0 {
			duration = loader.TransitionTime
		}
		anim.SetTrigger(TriggerStart)
	})

	rtEnt := ecs.CreateEntity(w)
	_ = ecs.Add(w, rtEnt, component.TransitionRuntimeComponent.Kind(), &component.TransitionRuntime{
		TargetScene: active + 1,
		Duration:    duration,
	})

	StartFadeOut(w)
	log.Debug().Int("scene", active+1).Float64("duration", duration).Msg("transition started")
}

func (ts *TransitionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	rtEnt, ok := ecs.First(w, component.TransitionRuntimeComponent.Kind())
	if !ok {
		return
	}
	rt, _ := ecs.Get(w, rtEnt, component.TransitionRuntimeComponent.Kind())
	if rt.ReqSent {
		return
	}

	rt.Elapsed += w.DeltaTime()
	if rt.Elapsed < rt.Duration {
		return
	}

	// The runtime stays alive until the scene system tears the world down,
	// which keeps later LoadNextLevel calls out.
	reqEnt := ecs.CreateEntity(w)
	_ = ecs.Add(w, reqEnt, component.SceneChangeRequestComponent.Kind(), &component.SceneChangeRequest{Index: rt.TargetScene})
	rt.ReqSent = true
}
