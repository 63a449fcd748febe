// Command scenecheck builds every scene in the build order into a fresh world
// and reports what it contains. It exits non-zero when a scene fails to
// build, has no way forward, or carries a motion script that does not run.
package main

import (
	"flag"
	"os"

	"github.com/milk9111/wallrunner/ecs"
	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/milk9111/wallrunner/ecs/entity"
	"github.com/milk9111/wallrunner/ecs/system"
	"github.com/milk9111/wallrunner/levels"
	"github.com/milk9111/wallrunner/prefabs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type report struct {
	entities  int
	colliders int
	finishes  int
	orbits    int
	scripts   int
	failed    int
}

func main() {
	only := flag.Int("scene", -1, "check a single build index")
	verbose := flag.Bool("v", false, "log scene construction")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	catalog, err := levels.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("load build")
	}
	builder, err := entity.NewSceneBuilder(catalog, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("scene builder")
	}

	ok := true
	for i := 0; i < builder.SceneCount(); i++ {
		if *only >= 0 && i != *only {
			continue
		}
		if !check(builder, i) {
			ok = false
		}
	}
	if !ok {
		os.Exit(1)
	}
}

func check(builder *entity.SceneBuilder, index int) bool {
	w := ecs.NewWorld()
	loaded, err := builder.BuildScene(w, index)
	if err != nil {
		log.Error().Err(err).Int("index", index).Msg("scene failed to build")
		return false
	}

	scripted, err := system.NewScriptedMotionSystem(prefabs.LoadScript)
	if err != nil {
		log.Error().Err(err).Msg("scripted motion")
		return false
	}
	w.SetDeltaTime(ecs.FixedStep)
	scripted.Update(w)

	r := count(w)
	log.Info().
		Int("index", index).
		Str("scene", loaded.Name).
		Bool("menu", loaded.Menu).
		Int("entities", r.entities).
		Int("colliders", r.colliders).
		Int("finishes", r.finishes).
		Int("orbits", r.orbits).
		Int("scripts", r.scripts).
		Msg("scene ok")

	healthy := true
	if !loaded.Menu && r.finishes == 0 {
		log.Error().Str("scene", loaded.Name).Msg("gameplay scene has no finish trigger")
		healthy = false
	}
	if r.failed > 0 {
		log.Error().Str("scene", loaded.Name).Int("failed", r.failed).Msg("motion scripts failed")
		healthy = false
	}
	return healthy
}

func count(w *ecs.World) report {
	r := report{entities: len(ecs.Entities(w))}
	ecs.ForEach(w, component.ColliderComponent.Kind(), func(_ ecs.Entity, c *component.Collider) {
		r.colliders++
		if c.Trigger && c.Layer&component.LayerFinish != 0 {
			r.finishes++
		}
	})
	ecs.ForEach(w, component.OrbitComponent.Kind(), func(ecs.Entity, *component.Orbit) {
		r.orbits++
	})
	ecs.ForEach(w, component.ScriptedMotionComponent.Kind(), func(_ ecs.Entity, m *component.ScriptedMotion) {
		r.scripts++
		if m.Failed {
			r.failed++
		}
	})
	return r
}
